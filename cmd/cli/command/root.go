package command

// root.go defines the root command for the librarycli application.
// set up the global flags and configuration here.

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"libraryconsole/internal/config"
	"libraryconsole/internal/logging"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	usersAPI string
	booksAPI string
	loansAPI string
	timeout  time.Duration
	verbose  bool
}

func (o *options) logger() *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logging.New(os.Stderr, level, "text")
}

// NewRootCmd builds the command tree. Flag defaults come from the same
// environment/.env configuration as the web console.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "librarycli",
		Short: "librarycli - Library admin console for the terminal",
		Long: `librarycli talks to the users, books and loans services of the library.
Staff can use it to:
- List users, books and loans
- Create, update and delete users and books
- Register new loans

Use "librarycli [command] --help" to see all available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// fall back to the built-in defaults; flags can still override
		cfg = &config.Config{
			UsersAPIURL:    "http://localhost:8001/users/",
			BooksAPIURL:    "http://localhost:8002/books/",
			LoansAPIURL:    "http://localhost:8000/loans/",
			RequestTimeout: 10 * time.Second,
		}
	}

	// Global persistent flags = available to all subcommands
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.usersAPI, "users-api", cfg.UsersAPIURL, "users service collection URL")
	flags.StringVar(&opts.booksAPI, "books-api", cfg.BooksAPIURL, "books service collection URL")
	flags.StringVar(&opts.loansAPI, "loans-api", cfg.LoansAPIURL, "loans service collection URL")
	flags.DurationVar(&opts.timeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log backend requests")

	rootCmd.AddCommand(newResourceCmd(usersResource, opts))
	rootCmd.AddCommand(newResourceCmd(booksResource, opts))
	rootCmd.AddCommand(newResourceCmd(loansResource, opts))
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err) // Print error to standard error
		os.Exit(1)
	}
}
