package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confirmPrompt asks the user for a yes/no answer on the command input.
func confirmPrompt(cmd *cobra.Command, message string) bool {
	cmd.Printf("%s [y/N]: ", message)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newBooksCommand() *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "本の管理コマンド (book management)",
	}
	books.AddCommand(
		newBooksAddCommand(),
		newBooksListCommand(),
		newBooksShowCommand(),
		newBooksUpdateCommand(),
		newBooksDeleteCommand(),
		newBooksFetchCoversCommand(),
	)
	return books
}

func newBooksAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <isbn>",
		Short: "ISBNから本を登録します (register a book by isbn)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			book, err := app.books.Create(cmd.Context(), args[0])
			if err != nil {
				switch {
				case errors.Is(err, ErrDuplicateISBN):
					return fmt.Errorf("✗ ISBN重複エラー (duplicate isbn): %s", args[0])
				case errors.Is(err, ErrISBNNotFound):
					return fmt.Errorf("✗ エラー: ISBN '%s' が見つかりません (isbn not found)", args[0])
				default:
					return fmt.Errorf("✗ ネットワークエラー (network error): %s", err)
				}
			}
			cmd.Println("✓ 本を登録しました (book registered)")
			cmd.Printf("  ID: %s\n", book.ID)
			cmd.Printf("  タイトル: %s\n", book.Title)
			cmd.Printf("  著者: %s\n", book.Author)
			cmd.Printf("  出版社: %s\n", book.Publisher)
			return nil
		},
	}
}

func newBooksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "登録されている本の一覧を表示します (list all books)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			books := app.books.List()
			if len(books) == 0 {
				cmd.Println("登録されている本がありません (no books registered)")
				return nil
			}
			cmd.Printf("\n登録されている本 (%d件):\n\n", len(books))
			for _, book := range books {
				cmd.Printf("ID: %s\n", book.ID)
				cmd.Printf("  タイトル: %s\n", book.Title)
				cmd.Printf("  著者: %s\n", book.Author)
				cmd.Printf("  出版社: %s\n", book.Publisher)
				cmd.Printf("  出版日: %s\n", book.PublicationDate)
				cmd.Printf("  ISBN: %s\n", book.ISBN)
				cmd.Printf("  ステータス: %s\n", book.StatusLabel())
				cmd.Printf("  登録日: %s\n", book.CreatedAt)
				cmd.Println()
			}
			return nil
		},
	}
}

func newBooksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "本の詳細情報と感想を表示します (show one book with its impressions)",
		Args:  cobra.ExactArgs(1),
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

			cmd.Println("\n【本の詳細】")
			cmd.Printf("ID: %s\n", book.ID)
			cmd.Printf("タイトル: %s\n", book.Title)
			cmd.Printf("著者: %s\n", book.Author)
			cmd.Printf("出版社: %s\n", book.Publisher)
			cmd.Printf("出版日: %s\n", book.PublicationDate)
			cmd.Printf("ISBN: %s\n", book.ISBN)
			cmd.Printf("ステータス: %s\n", book.StatusLabel())
			cmd.Printf("登録日: %s\n", book.CreatedAt)
			cmd.Printf("説明: %s\n", book.Description)

			impressions := app.impressions.ListByBook(book.ID)
			if len(impressions) == 0 {
				cmd.Println("\n感想がまだ投稿されていません (no impressions yet)")
				return nil
			}
			cmd.Printf("\n【感想 (%d件)】\n\n", len(impressions))
			for _, impression := range impressions {
				cmd.Printf("ID: %s\n", impression.ID)
				cmd.Printf("投稿日: %s\n", impression.CreatedAt)
				cmd.Printf("内容: %s\n", impression.Content)
				cmd.Println()
			}
			return nil
		},
	}
}

func newBooksUpdateCommand() *cobra.Command {
	var title, author, publisher, publicationDate, description string
	cmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "本の情報を更新します (update book fields)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			update := BookUpdate{}
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("author") {
				update.Author = &author
			}
			if cmd.Flags().Changed("publisher") {
				update.Publisher = &publisher
			}
			if cmd.Flags().Changed("publication-date") {
				update.PublicationDate = &publicationDate
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if update == (BookUpdate{}) {
				return errors.New("✗ エラー: 更新する項目を指定してください (nothing to update)")
			}

			book, err := app.books.Update(args[0], update)
			if err != nil {
				if errors.Is(err, ErrBookNotFound) {
					return fmt.Errorf("✗ エラー: ID '%s' の本が見つかりません (book not found)", args[0])
				}
				return fmt.Errorf("✗ エラー (error): %s", err)
			}
			cmd.Println("✓ 本を更新しました (book updated)")
			cmd.Printf("  ID: %s\n", book.ID)
			cmd.Printf("  タイトル: %s\n", book.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "新しいタイトル (new title)")
	cmd.Flags().StringVar(&author, "author", "", "新しい著者 (new author)")
	cmd.Flags().StringVar(&publisher, "publisher", "", "新しい出版社 (new publisher)")
	cmd.Flags().StringVar(&publicationDate, "publication-date", "", "新しい出版日 (new publication date)")
	cmd.Flags().StringVar(&description, "description", "", "新しい説明 (new description)")
	return cmd
}

func newBooksDeleteCommand() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "delete <book-id>",
		Short: "本を削除します。関連する感想も削除されます (delete a book and its impressions)",
		Args:  cobra.ExactArgs(1),
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

			if !confirm {
				cmd.Println("\n本を削除します (about to delete):")
				cmd.Printf("  タイトル: %s\n", book.Title)
				cmd.Printf("  著者: %s\n", book.Author)
				if impressions := app.impressions.ListByBook(book.ID); len(impressions) > 0 {
					cmd.Printf("\n関連する感想 (%d件) も削除されます (impressions go with it)\n", len(impressions))
				}
				if !confirmPrompt(cmd, "\n本当に削除しますか？ (really delete?)") {
					cmd.Println("キャンセルしました (cancelled)")
					return nil
				}
			}

			if err := app.books.Delete(book.ID); err != nil {
				return fmt.Errorf("✗ エラー (error): %s", err)
			}
			cmd.Println("✓ 本を削除しました (book deleted)")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "確認プロンプトをスキップ (skip the confirmation prompt)")
	return cmd
}

func newBooksFetchCoversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-covers",
		Short: "書影のない本の表紙を取得します (backfill missing cover urls)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return fmt.Errorf("✗ データエラー (data error): %s", err)
			}
			defer app.Clean()

			updated := app.books.FetchMissingCovers(cmd.Context())
			cmd.Printf("✓ 書影を更新しました (covers updated): %d件\n", updated)
			return nil
		},
	}
}
