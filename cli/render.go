package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"library-catalog/library"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"

	minTitleWidth = 20
	maxTitleWidth = 50
	// Width taken by every column except Title, separators included.
	fixedColumnsWidth = 20 + 18 + 12 + 10 + 20 + 20 + 6
)

// renderer prints book tables. Rows are coloured by status and the Title
// column grows with the terminal only when out is a terminal.
type renderer struct {
	out        io.Writer
	color      bool
	titleWidth int
}

func newRenderer(out io.Writer) *renderer {
	r := &renderer{out: out, titleWidth: 30}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r
	}
	r.color = true
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		r.titleWidth = min(max(width-fixedColumnsWidth-1, minTitleWidth), maxTitleWidth)
	}
	return r
}

func (r *renderer) books(books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(r.out, "No books in library.")
		return
	}

	format := fmt.Sprintf("%%-%ds %%-20s %%-18s %%-12s %%-10s %%-20s %%-20s\n", r.titleWidth)
	fmt.Fprintf(r.out, format, "Title", "Author", "Genre", "Type", "Status", "Borrowed On", "Returned On")
	fmt.Fprintln(r.out, strings.Repeat("-", r.titleWidth+fixedColumnsWidth))

	for _, b := range books {
		line := fmt.Sprintf(format,
			truncateString(b.Title, r.titleWidth),
			truncateString(b.Author, 20),
			truncateString(b.Genre, 18),
			b.Type,
			b.Status(),
			formatTimestamp(b.BorrowedOn),
			formatTimestamp(b.ReturnedOn))
		if r.color {
			c := colorGreen
			if !b.Available {
				c = colorRed
			}
			line = c + strings.TrimSuffix(line, "\n") + colorReset + "\n"
		}
		fmt.Fprint(r.out, line)
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(library.TimeLayout)
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
