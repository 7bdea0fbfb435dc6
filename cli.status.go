package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// parseStatusInput accepts both the stored status values and their
// japanese display labels.
func parseStatusInput(input string) (string, bool) {
	if IsValidStatus(input) {
		return input, true
	}
	for _, status := range ValidStatuses {
		if StatusLabels[status] == input {
			return status, true
		}
	}
	return "", false
}

func newStatusCommand() *cobra.Command {
	status := &cobra.Command{
		Use:   "status",
		Short: "読書ステータスの管理コマンド (reading status management)",
	}
	status.AddCommand(
		newStatusSetCommand(),
		newStatusShowCommand(),
		newStatusListCommand(),
	)
	return status
}

func newStatusSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <book-id> <status>",
		Short: "本の読書ステータスを変更します (積読/読書中/読了)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newStatus, ok := parseStatusInput(args[1])
			if !ok {
				return fmt.Errorf("✗ エラー: 無効なステータスです (invalid status): %s", args[1])
			}

			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			book, err := app.statuses.Set(args[0], newStatus)
			if err != nil {
				if errors.Is(err, ErrBookNotFound) {
					return fmt.Errorf("✗ エラー: ID '%s' の本が見つかりません (book not found)", args[0])
				}
				return fmt.Errorf("✗ エラー (error): %s", err)
			}
			cmd.Println("✓ ステータスを変更しました (status changed)")
			cmd.Printf("  本: %s\n", book.Title)
			cmd.Printf("  新しいステータス: %s\n", book.StatusLabel())
			return nil
		},
	}
}

func newStatusShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "本の読書ステータスと履歴を表示します (show status and history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			status, err := app.statuses.Get(args[0])
			if err != nil {
				return fmt.Errorf("✗ エラー: ID '%s' の本が見つかりません (book not found)", args[0])
			}
			cmd.Printf("現在のステータス: %s\n", StatusLabels[status])

			history := app.statuses.HistoryByBook(args[0])
			if len(history) > 0 {
				cmd.Println("\nステータス変更履歴 (history):")
				for _, entry := range history {
					cmd.Printf("  %s: %s → %s\n", entry.ChangedAt, StatusLabels[entry.OldStatus], StatusLabels[entry.NewStatus])
				}
			}
			return nil
		},
	}
}

func newStatusListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <status>",
		Short: "指定したステータスの本を一覧表示します (list books by status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := parseStatusInput(args[0])
			if !ok {
				return fmt.Errorf("✗ エラー: 無効なステータスです (invalid status): %s", args[0])
			}

			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			books := app.statuses.BooksByStatus(status)
			if len(books) == 0 {
				cmd.Printf("ステータス '%s' の本がありません (no books with this status)\n", StatusLabels[status])
				return nil
			}
			cmd.Printf("\nステータス '%s' の本 (%d冊):\n\n", StatusLabels[status], len(books))
			for _, book := range books {
				cmd.Printf("  %s\n", book.Title)
				cmd.Printf("    著者: %s\n", book.Author)
				cmd.Printf("    ID: %s\n", book.ID)
				cmd.Println()
			}
			return nil
		},
	}
}
