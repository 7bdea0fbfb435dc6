package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newImpressionsCommand() *cobra.Command {
	impressions := &cobra.Command{
		Use:   "impressions",
		Short: "感想の管理コマンド (impression management)",
	}
	impressions.AddCommand(
		newImpressionsAddCommand(),
		newImpressionsUpdateCommand(),
		newImpressionsDeleteCommand(),
	)
	return impressions
}

func newImpressionsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <book-id> <content>",
		Short: "感想を投稿します (post an impression on a book)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			book, err := app.books.Get(args[0])
			if err != nil {
				return fmt.Errorf("✗ エラー: ID '%s' の本が見つかりません (book not found)", args[0])
			}

			impression, err := app.impressions.Create(book.ID, args[1])
			if err != nil {
				if errors.Is(err, ErrEmptyContent) {
					return errors.New("✗ エラー: 感想の内容を入力してください (content is empty)")
				}
				return fmt.Errorf("✗ エラー (error): %s", err)
			}
			cmd.Println("✓ 感想を投稿しました (impression posted)")
			cmd.Printf("  ID: %s\n", impression.ID)
			cmd.Printf("  本: %s\n", book.Title)
			cmd.Printf("  投稿日: %s\n", impression.CreatedAt)
			return nil
		},
	}
}

func newImpressionsUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <impression-id> <content>",
		Short: "感想を更新します (update an impression)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			impression, err := app.impressions.Update(args[0], args[1])
			if err != nil {
				switch {
				case errors.Is(err, ErrImpressionNotFound):
					return fmt.Errorf("✗ エラー: ID '%s' の感想が見つかりません (impression not found)", args[0])
				case errors.Is(err, ErrEmptyContent):
					return errors.New("✗ エラー: 感想の内容を入力してください (content is empty)")
				default:
					return fmt.Errorf("✗ エラー (error): %s", err)
				}
			}
			cmd.Println("✓ 感想を更新しました (impression updated)")
			cmd.Printf("  ID: %s\n", impression.ID)
			cmd.Printf("  更新日: %s\n", impression.UpdatedAt)
			return nil
		},
	}
}

func newImpressionsDeleteCommand() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "delete <impression-id>",
		Short: "感想を削除します (delete an impression)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			impression, err := app.impressions.Get(args[0])
			if err != nil {
				return fmt.Errorf("✗ エラー: ID '%s' の感想が見つかりません (impression not found)", args[0])
			}

			if !confirm {
				cmd.Println("\n感想を削除します (about to delete):")
				if book, err := app.books.Get(impression.BookID); err == nil {
					cmd.Printf("  本: %s\n", book.Title)
				}
				content := []rune(impression.Content)
				if len(content) > 50 {
					content = content[:50]
				}
				cmd.Printf("  内容: %s...\n", string(content))
				if !confirmPrompt(cmd, "\n本当に削除しますか？ (really delete?)") {
					cmd.Println("キャンセルしました (cancelled)")
					return nil
				}
			}

			if err := app.impressions.Delete(impression.ID); err != nil {
				return fmt.Errorf("✗ エラー (error): %s", err)
			}
			cmd.Println("✓ 感想を削除しました (impression deleted)")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "確認プロンプトをスキップ (skip the confirmation prompt)")
	return cmd
}
