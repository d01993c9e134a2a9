package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"library-catalog/library"
)

// errUnsuccessful marks a lookup that found nothing eligible. Its message has
// already been shown to the user.
var errUnsuccessful = errors.New("operation unsuccessful")

// session wires user-facing messages to catalog operations. Both the shell
// and the one-shot commands go through it.
type session struct {
	cat    *library.Catalog
	out    io.Writer
	render *renderer
}

func newSession(cat *library.Catalog, out io.Writer) *session {
	return &session{cat: cat, out: out, render: newRenderer(out)}
}

// list shows the whole catalog, or the search results when keyword is set.
func (s *session) list(keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		s.render.books(s.cat.All())
		return
	}
	books := s.cat.Search(keyword)
	if len(books) == 0 {
		fmt.Fprintf(s.out, "No books found matching '%s'.\n", keyword)
		return
	}
	s.render.books(books)
}

func (s *session) addBook(title, author, genre, typeText string) error {
	bookType, ok := library.ParseBookType(typeText)
	if !ok {
		fmt.Fprintf(s.out, "Invalid book type %q. Use one of: %s\n", typeText, bookTypeNames())
		return errUnsuccessful
	}
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(s.out, "Title cannot be empty.")
		return errUnsuccessful
	}

	if err := s.cat.Add(library.NewBook(title, author, genre, bookType)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Book '%s' added!\n", title)
	return nil
}

func (s *session) removeBook(title string) error {
	ok, err := s.cat.Remove(title)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Book not found!")
		return errUnsuccessful
	}
	fmt.Fprintf(s.out, "Book '%s' removed successfully.\n", title)
	return nil
}

func (s *session) borrowBook(title string) error {
	ok, err := s.cat.Borrow(title)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Book is not available!")
		return errUnsuccessful
	}
	fmt.Fprintf(s.out, "You borrowed '%s'.\n", title)
	return nil
}

func (s *session) returnBook(title string) error {
	ok, err := s.cat.Return(title)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Book not found!")
		return errUnsuccessful
	}
	fmt.Fprintf(s.out, "Book '%s' returned successfully.\n", title)
	return nil
}

func bookTypeNames() string {
	names := make([]string, len(library.BookTypes))
	for i, t := range library.BookTypes {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
