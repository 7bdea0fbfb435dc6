package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSiteCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate-site",
		Short: "静的HTMLサイトを生成します (generate the static html site)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			generator := app.siteGenerator
			if output != "" {
				generator = NewStaticSiteGenerator(app.logger, app.books, app.impressions, app.markdown, output)
			} else {
				output = app.config.Data.OutputDir
			}
			if err := generator.Generate(); err != nil {
				return fmt.Errorf("✗ エラー (error): %s", err)
			}

			books := app.books.List()
			cmd.Println("✓ 静的サイトを生成しました (static site generated)")
			cmd.Printf("  出力先: %s/\n", output)
			cmd.Printf("  本の数: %d\n", len(books))
			cmd.Println("  生成ファイル:")
			cmd.Println("    - index.html (本一覧ページ)")
			cmd.Println("    - books/*.html (本詳細ページ)")
			cmd.Println("    - style.css (スタイルシート)")
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "出力ディレクトリ (output directory)")
	return cmd
}
