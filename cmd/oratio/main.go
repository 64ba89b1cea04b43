package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"oratio-cli/internal/app"
	"oratio-cli/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "1.0.0"

func loadApplication() (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	return app.NewApplication(cfg), nil
}

// promptCredentials reads the email from stdin and the password without echo.
func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	fmt.Print("password: ")
	pwd, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), string(pwd), nil
}

func newLoginCmd(signup bool) *cobra.Command {
	use, short := "login", "Authenticate and store the session token"
	if signup {
		use, short = "signup", "Create an account and store the session token"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			email, password, err := promptCredentials()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if signup {
				err = a.Signup(ctx, email, password)
			} else {
				err = a.Login(ctx, email, password)
			}
			if err != nil {
				return fmt.Errorf("%s", app.UserMessage(err))
			}
			fmt.Printf("logged in as %s\n", email)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			if err := a.Logout(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			if !a.Session.IsAuthenticated() {
				return fmt.Errorf("not logged in")
			}
			u, err := a.Client.Me(context.Background())
			if err != nil {
				return fmt.Errorf("%s", app.UserMessage(err))
			}
			_ = a.Session.SetUser(u)
			fmt.Printf("%s (id %d)\n", u.Email, u.ID)
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text]",
		Short: "Run one bias analysis without the TUI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(data)
			}
			res, err := a.Analyze(context.Background(), text)
			if err != nil {
				return fmt.Errorf("%s", app.UserMessage(err))
			}
			fmt.Printf("score %.2f, %d biased fragment(s)\n", res.Summary.Score, res.Summary.BiasedCount)
			for _, s := range res.Sentences {
				if len(s.BiasedSpans) == 0 {
					continue
				}
				fmt.Printf("  %s\n", s.Sentence)
				for _, span := range s.BiasedSpans {
					fmt.Printf("    %s: %q\n", span.Type, span.Text)
				}
				if s.Suggestion != "" {
					fmt.Printf("    suggestion: %s\n", s.Suggestion)
				}
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var deleteID int
	var clear bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, delete or clear past analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			ctx := context.Background()
			switch {
			case clear:
				if err := a.History.ClearAll(ctx); err != nil {
					return fmt.Errorf("%s", app.UserMessage(err))
				}
				fmt.Println("history cleared")
				return nil
			case deleteID > 0:
				if err := a.History.DeleteItem(ctx, deleteID); err != nil {
					return fmt.Errorf("%s", app.UserMessage(err))
				}
				fmt.Printf("deleted record %d\n", deleteID)
				return nil
			default:
				if err := a.History.Refresh(ctx); err != nil {
					return fmt.Errorf("%s", app.UserMessage(err))
				}
				st := a.History.Snapshot()
				if len(st.Items) == 0 {
					fmt.Println("no analyses yet")
					return nil
				}
				for _, rec := range st.Items {
					fmt.Printf("%6d  %s  %.2f  %s\n",
						rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"),
						rec.AnalysisResult.Summary.Score, firstLine(rec.OriginalText, 60))
				}
				if st.HasMore() {
					fmt.Printf("… %d more on the server\n", st.TotalCount-len(st.Items))
				}
				return nil
			}
		},
	}
	cmd.Flags().IntVar(&deleteID, "delete", 0, "delete the record with this id")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete the entire history")
	return cmd
}

func firstLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}

func main() {
	root := &cobra.Command{
		Use:     "oratio",
		Short:   "Oratio - terminal client for the bias detection service",
		Long:    "Oratio analyzes text for biased language.\n\nRun without arguments for the interactive TUI, or use the subcommands for scripting.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			themeName, _ := cmd.Flags().GetString("theme")
			p := tea.NewProgram(tui.New(a, themeName), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.Flags().String("theme", "", "color theme (porcelain, midnight)")

	root.AddCommand(
		newLoginCmd(false),
		newLoginCmd(true),
		newLogoutCmd(),
		newWhoamiCmd(),
		newAnalyzeCmd(),
		newHistoryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
