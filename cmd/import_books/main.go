package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"library-catalog/config"
	"library-catalog/library"
	"library-catalog/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := newCommand(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "import_books <books.csv>",
		Short:        "Append books from a CSV file (title,author,genre,type) to the catalog",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(cfg.LogLevel); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cat, err := library.OpenCatalog(cfg.Storage, cfg.DataFile, library.WithLogger(logger.Logger))
			if err != nil {
				return err
			}
			defer cat.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importing books from %s into %s...\n", args[0], cfg.DataFile)
			imported, skipped, err := importBooks(cat, f, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nImport complete!\n")
			fmt.Fprintf(out, "Successfully imported: %d books\n", imported)
			fmt.Fprintf(out, "Skipped: %d\n", skipped)

			if imported > 0 {
				fmt.Fprintln(out, "\nCatalog:")
				fmt.Fprintf(out, "%-50s %-30s %-12s\n", "Title", "Author", "Type")
				fmt.Fprintln(out, strings.Repeat("-", 94))
				for _, b := range cat.All() {
					fmt.Fprintf(out, "%-50s %-30s %-12s\n", truncateString(b.Title, 50), truncateString(b.Author, 30), b.Type)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.DataFile, "file", cfg.DataFile, "catalog data file")
	cmd.Flags().StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: json or sqlite")
	return cmd
}

// importBooks adds one book per CSV row after the header. Rows with an
// unknown type or an empty title are reported and skipped; storage errors
// stop the import.
func importBooks(cat *library.Catalog, r io.Reader, out io.Writer) (imported, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "title") {
		return 0, 0, fmt.Errorf("unexpected header %v, want title,author,genre,type", header)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("read row: %w", err)
		}

		title, author, genre := strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2])
		fmt.Fprintf(out, "Importing: %s by %s... ", title, author)

		bookType, ok := library.ParseBookType(row[3])
		if !ok || title == "" {
			fmt.Fprintf(out, "SKIPPED - invalid row %q\n", strings.Join(row, ","))
			skipped++
			continue
		}
		if err := cat.Add(library.NewBook(title, author, genre, bookType)); err != nil {
			fmt.Fprintln(out, "ERROR")
			return imported, skipped, err
		}
		fmt.Fprintln(out, "SUCCESS")
		imported++
	}
	return imported, skipped, nil
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
