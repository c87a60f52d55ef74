package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/finbrief/finbrief/internal/app"
	"github.com/spf13/cobra"
)

var chatUser string

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive analysis session",
	Long: `Chat runs an interactive loop against the analysis team.

Each session is persisted, so a conversation can be resumed later.
On start you choose between resuming your latest session and opening a
fresh one.

Example:
  finbrief chat
  finbrief chat --user ava`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatUser, "user", "default", "user id owning the session")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := app.New(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)

	sessionID, err := pickSession(ctx, a, reader)
	if err != nil {
		return err
	}

	fmt.Printf("Session: %s\n", sessionID)
	fmt.Println("Ask about market-moving news or stock data. Examples:")
	fmt.Println("  - What is the latest news about NVDA?")
	fmt.Println("  - Did the Fed cut rates this week, and how do banks react?")
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF ends the session cleanly
			fmt.Println()
			return nil
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "exit", "quit", "bye":
			fmt.Println("Goodbye!")
			return nil
		}

		out, err := a.Query(ctx, sessionID, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Println("Please try again with a different query.")
			continue
		}

		fmt.Println()
		fmt.Println(out)
		fmt.Println()
	}
}

// pickSession resumes the user's latest session unless they opt into a new
// one (or have none yet).
func pickSession(ctx context.Context, a *app.App, reader *bufio.Reader) (string, error) {
	latest, err := a.Sessions.LatestSessionID(ctx, chatUser)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return a.Sessions.CreateSession(ctx, chatUser)
	}

	fmt.Print("Start a new session? (y/N) ")
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		return a.Sessions.CreateSession(ctx, chatUser)
	}
	return latest, nil
}
