package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// shell is the interactive front end. After every successful mutation it
// re-renders the catalog.
type shell struct {
	*session
	sc *bufio.Scanner
}

func newShell(s *session, in io.Reader) *shell {
	return &shell{session: s, sc: bufio.NewScanner(in)}
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, "Available commands:")
	fmt.Fprintln(sh.out, "  Books: add book, remove book, list books, search book")
	fmt.Fprintln(sh.out, "  Circulation: borrow, return")
	fmt.Fprintln(sh.out, "  System: help, exit")
}

// run reads commands until exit or end of input. It returns only storage
// errors, which leave the catalog file in an unknown state.
func (sh *shell) run() error {
	fmt.Fprintln(sh.out, "Welcome to the Library Catalog!")
	sh.printHelp()

	for {
		fmt.Fprint(sh.out, "\n> ")
		if !sh.sc.Scan() {
			break
		}
		cmd := strings.ToLower(strings.TrimSpace(sh.sc.Text()))

		var err error
		switch cmd {
		case "":
			continue
		case "add book", "add":
			err = sh.handleAddBook()
		case "remove book", "remove":
			err = sh.handleTitle(sh.removeBook)
		case "list books", "list":
			sh.list("")
		case "search book", "search":
			sh.handleSearch()
		case "borrow":
			err = sh.handleTitle(sh.borrowBook)
		case "return":
			err = sh.handleTitle(sh.returnBook)
		case "help":
			sh.printHelp()
		case "exit", "quit":
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(sh.out, "Unknown command. Type 'help' to see the available commands.")
		}

		if err != nil && !errors.Is(err, errUnsuccessful) {
			return err
		}
	}
	return sh.sc.Err()
}

// prompt reports false when input ends before a line is read.
func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprintf(sh.out, "%s: ", label)
	if !sh.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.sc.Text()), true
}

func (sh *shell) handleAddBook() error {
	var fields [4]string
	for i, label := range []string{"Title", "Author", "Genre/Subject/Topic", "Book Type (Fiction/Non-Fiction/Reference/General)"} {
		v, ok := sh.prompt(label)
		if !ok {
			return nil
		}
		fields[i] = v
	}

	if err := sh.addBook(fields[0], fields[1], fields[2], fields[3]); err != nil {
		return err
	}
	sh.list("")
	return nil
}

func (sh *shell) handleTitle(op func(title string) error) error {
	title, ok := sh.prompt("Title")
	if !ok {
		return nil
	}
	if title == "" {
		fmt.Fprintln(sh.out, "Enter a book title.")
		return nil
	}
	if err := op(title); err != nil {
		return err
	}
	sh.list("")
	return nil
}

func (sh *shell) handleSearch() {
	query, ok := sh.prompt("Query")
	if !ok {
		return
	}
	sh.list(query)
}
