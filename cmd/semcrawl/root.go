package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for semcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semcrawl",
		Short: "Goal-directed Wikipedia crawler guided by semantic similarity",
		Long: `semcrawl finds a path between two Wikipedia articles.

From the start article it always follows the unvisited link whose text is
ranked most similar to the target article's title by a semantic similarity
service, backtracking depth-first until the target is reached or every
reachable article has been visited.

The similarity service endpoints are read from OML_AUTH_BASE_URL and
OML_SERVICE_BASE_URL (environment or .env file) or from the configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
// The process exits with status 1 on any error, including a crawl that did
// not reach its target.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errTargetNotReached) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
