package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finbrief/finbrief/internal/app"
	"github.com/spf13/cobra"
)

var askTimeout time.Duration

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Run a single query and print the report",
	Long: `Ask runs one query through the full pipeline without a session.

Example:
  finbrief ask "What is the latest news and financial performance of NVDA?"
  finbrief ask "Did Trump impose new sanctions, and how do defense stocks react?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 5*time.Minute, "overall query timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	a, err := app.New(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Query(ctx, "", strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(out)
	return nil
}
