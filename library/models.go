package library

import (
	"strings"
	"time"
)

// TimeLayout is the on-disk format of borrow and return timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// BookType is a descriptive classification of a book. It has no effect on
// how the catalog treats the book.
type BookType string

const (
	General    BookType = "General"
	Fiction    BookType = "Fiction"
	NonFiction BookType = "Non-Fiction"
	Reference  BookType = "Reference"
)

// BookTypes lists every recognized type in display order.
var BookTypes = []BookType{General, Fiction, NonFiction, Reference}

func (t BookType) String() string { return string(t) }

// ParseBookType maps user input such as "non-fiction" to a BookType.
// Matching ignores case and surrounding whitespace.
func ParseBookType(s string) (BookType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range BookTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// bookTypeFromTag decodes a persisted tag. Unknown or missing tags fall back
// to General.
func bookTypeFromTag(tag string) (BookType, bool) {
	for _, t := range BookTypes {
		if tag == string(t) {
			return t, true
		}
	}
	return General, false
}

// Book is a single catalog entry. A zero BorrowedOn or ReturnedOn means the
// event never happened.
type Book struct {
	Title      string
	Author     string
	Genre      string
	Available  bool
	BorrowedOn time.Time
	ReturnedOn time.Time
	Type       BookType
}

// NewBook returns an available book with no borrow history.
func NewBook(title, author, genre string, t BookType) Book {
	return Book{
		Title:     title,
		Author:    author,
		Genre:     genre,
		Available: true,
		Type:      t,
	}
}

// Status reports "Available" or "Borrowed".
func (b Book) Status() string {
	if b.Available {
		return "Available"
	}
	return "Borrowed"
}

// Record is the flat key/value form of a Book used by every Storage.
type Record struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Genre      string  `json:"genre"`
	Available  *bool   `json:"available"`
	BorrowedOn *string `json:"borrowed_on"`
	ReturnedOn *string `json:"returned_on"`
	BookType   string  `json:"book_type"`
}

// Record converts b to its persisted form.
func (b Book) Record() Record {
	available := b.Available
	t := b.Type
	if t == "" {
		t = General
	}
	return Record{
		Title:      b.Title,
		Author:     b.Author,
		Genre:      b.Genre,
		Available:  &available,
		BorrowedOn: formatTime(b.BorrowedOn),
		ReturnedOn: formatTime(b.ReturnedOn),
		BookType:   string(t),
	}
}

// BookFromRecord rebuilds a Book from its persisted form. Missing fields are
// treated as absent and unknown type tags become General.
func BookFromRecord(r Record) Book {
	b, _ := decodeRecord(r)
	return b
}

// decodeRecord is BookFromRecord plus the list of fields that could not be
// decoded as stored, so callers can log them.
func decodeRecord(r Record) (Book, []string) {
	var fallbacks []string

	t, ok := bookTypeFromTag(r.BookType)
	if !ok {
		fallbacks = append(fallbacks, "book_type")
	}
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	borrowed, ok := parseTime(r.BorrowedOn)
	if !ok {
		fallbacks = append(fallbacks, "borrowed_on")
	}
	returned, ok := parseTime(r.ReturnedOn)
	if !ok {
		fallbacks = append(fallbacks, "returned_on")
	}

	return Book{
		Title:      r.Title,
		Author:     r.Author,
		Genre:      r.Genre,
		Available:  available,
		BorrowedOn: borrowed,
		ReturnedOn: returned,
		Type:       t,
	}, fallbacks
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(TimeLayout)
	return &s
}

// parseTime reports false only when a value is present but malformed.
func parseTime(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation(TimeLayout, *s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
