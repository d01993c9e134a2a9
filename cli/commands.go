// Package cli is the terminal front end of the catalog: an interactive shell
// plus one-shot subcommands built with cobra.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"library-catalog/config"
	"library-catalog/library"
	"library-catalog/logger"
)

// app carries state between cobra's pre-run hook and the command bodies.
type app struct {
	cfg config.Config
	cat *library.Catalog
}

// Execute loads the configuration and runs the command named by os.Args.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return err
	}

	root := NewRootCommand(cfg)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errUnsuccessful) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// NewRootCommand builds the command tree. cfg supplies the flag defaults.
func NewRootCommand(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Manage a small library catalog",
		Long:          "Add, remove, borrow and return books. Run without a subcommand for the interactive shell.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		RunE: a.run(func(cmd *cobra.Command, s *session, _ []string) error {
			return newShell(s, cmd.InOrStdin()).run()
		}),
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.DataFile, "file", cfg.DataFile, "catalog data file")
	flags.StringVar(&a.cfg.Storage, "storage", cfg.Storage, "storage backend: json or sqlite (default: from file extension)")
	flags.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(
		a.addCommand(),
		a.listCommand(),
		a.searchCommand(),
		a.titleCommand("remove", "Remove the first book with the given title", (*session).removeBook),
		a.titleCommand("borrow", "Borrow the first available book with the given title", (*session).borrowBook),
		a.titleCommand("return", "Return the first borrowed book with the given title", (*session).returnBook),
	)
	return root
}

func (a *app) open() error {
	if err := logger.Init(a.cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.cfg.LogLevel, err)
	}

	cat, err := library.OpenCatalog(a.cfg.Storage, a.cfg.DataFile, library.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	logger.Logger.WithField("file", a.cfg.DataFile).WithField("books", cat.Len()).Info("catalog opened")
	a.cat = cat
	return nil
}

func (a *app) close() error {
	if a.cat == nil {
		return nil
	}
	err := a.cat.Close()
	a.cat = nil
	return err
}

// run adapts fn to cobra and closes the catalog however fn ends.
func (a *app) run(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, newSession(a.cat, cmd.OutOrStdout()), args)
	}
}

func (a *app) addCommand() *cobra.Command {
	var title, author, genre, bookType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: a.run(func(_ *cobra.Command, s *session, _ []string) error {
			return s.addBook(title, author, genre, bookType)
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&genre, "genre", "", "genre, subject or topic")
	cmd.Flags().StringVar(&bookType, "type", library.General.String(), "book type: "+bookTypeNames())
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: a.run(func(_ *cobra.Command, s *session, _ []string) error {
			s.list("")
			return nil
		}),
	}
}

func (a *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [keyword]",
		Short: "List books whose title or author contains keyword",
		RunE: a.run(func(_ *cobra.Command, s *session, args []string) error {
			s.list(strings.Join(args, " "))
			return nil
		}),
	}
}

func (a *app) titleCommand(use, short string, op func(*session, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <title>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(_ *cobra.Command, s *session, args []string) error {
			return op(s, strings.Join(args, " "))
		}),
	}
}
