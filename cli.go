package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRootCommand builds the cli. Every subcommand wires the full app
// on demand so a bare invocation stays cheap.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "蔵書管理アプリケーション - 本と感想を管理するツール (personal library manager)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newVersionCommand(),
		newBooksCommand(),
		newImpressionsCommand(),
		newStatusCommand(),
		newSiteCommand(),
	)
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Webサーバーを起動します (start the web server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ 起動エラー (startup error): %s", err)
			}
			return app.Run()
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "バージョン情報を表示します (show version details)",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("commit: %s\ntag: %s\nbuilt: %s\n", GitCommit, GitTag, BuildTime)
		},
	}
}
