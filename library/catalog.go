package library

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Catalog is the ordered, in-memory book collection. Every successful
// mutation writes the whole collection back to its Storage before returning.
// A Catalog is not safe for concurrent use.
//
// Books are looked up by case-insensitive title. Titles are not unique; the
// first match in catalog order always wins.
type Catalog struct {
	storage Storage
	books   []Book

	now func() time.Time
	log logrus.FieldLogger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the source of borrow and return timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithLogger sets the logger used for load and persist events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Catalog) { c.log = log }
}

// NewCatalog loads every record from storage.
func NewCatalog(storage Storage, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		storage: storage,
		now:     time.Now,
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	records, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c.books = make([]Book, 0, len(records))
	for i, r := range records {
		b, fallbacks := decodeRecord(r)
		if len(fallbacks) > 0 {
			c.log.WithFields(logrus.Fields{
				"index":  i,
				"title":  r.Title,
				"fields": fallbacks,
			}).Warn("record fields replaced with defaults")
		}
		c.books = append(c.books, b)
	}
	c.log.WithField("books", len(c.books)).Debug("catalog loaded")
	return c, nil
}

// OpenCatalog opens the storage of the given kind at path and loads it.
func OpenCatalog(kind, path string, opts ...Option) (*Catalog, error) {
	storage, err := OpenStorage(kind, path)
	if err != nil {
		return nil, err
	}
	c, err := NewCatalog(storage, opts...)
	if err != nil {
		if closer, ok := storage.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	return c, nil
}

// Close releases the storage if it holds an open handle.
func (c *Catalog) Close() error {
	if closer, ok := c.storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ------------------ Queries ------------------

// All returns a copy of every book in catalog order.
func (c *Catalog) All() []Book { return slices.Clone(c.books) }

// Len returns the number of books.
func (c *Catalog) Len() int { return len(c.books) }

// Search returns the books whose title or author contains keyword, ignoring
// case. An empty keyword matches every book.
func (c *Catalog) Search(keyword string) []Book {
	kw := strings.ToLower(keyword)
	results := []Book{}
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), kw) || strings.Contains(strings.ToLower(b.Author), kw) {
			results = append(results, b)
		}
	}
	return results
}

// ------------------ Mutations ------------------

// Add appends book to the end of the catalog.
func (c *Catalog) Add(book Book) error {
	if book.Type == "" {
		book.Type = General
	}
	c.books = append(c.books, book)
	return c.persist("add", book.Title)
}

// Remove deletes the first book titled title. It reports false when there is
// no such book.
func (c *Catalog) Remove(title string) (bool, error) {
	i := c.find(title, func(Book) bool { return true })
	if i < 0 {
		return false, nil
	}
	c.books = slices.Delete(c.books, i, i+1)
	return true, c.persist("remove", title)
}

// Borrow checks out the first available book titled title. It reports false
// when no such book is on the shelf.
func (c *Catalog) Borrow(title string) (bool, error) {
	i := c.find(title, func(b Book) bool { return b.Available })
	if i < 0 {
		return false, nil
	}
	c.books[i].Available = false
	c.books[i].BorrowedOn = c.timestamp()
	return true, c.persist("borrow", title)
}

// Return puts back the first borrowed book titled title. It reports false
// when no such book is checked out.
func (c *Catalog) Return(title string) (bool, error) {
	i := c.find(title, func(b Book) bool { return !b.Available })
	if i < 0 {
		return false, nil
	}
	c.books[i].Available = true
	c.books[i].ReturnedOn = c.timestamp()
	return true, c.persist("return", title)
}

// ------------------ Internals ------------------

func (c *Catalog) find(title string, eligible func(Book) bool) int {
	for i, b := range c.books {
		if strings.EqualFold(b.Title, title) && eligible(b) {
			return i
		}
	}
	return -1
}

// timestamp drops sub-second precision, which the stored format can't hold.
func (c *Catalog) timestamp() time.Time {
	return c.now().Truncate(time.Second)
}

func (c *Catalog) persist(op, title string) error {
	records := make([]Record, len(c.books))
	for i, b := range c.books {
		records[i] = b.Record()
	}
	if err := c.storage.Save(records); err != nil {
		return fmt.Errorf("save catalog after %s %q: %w", op, title, err)
	}
	c.log.WithFields(logrus.Fields{
		"op":    op,
		"title": title,
		"books": len(c.books),
	}).Debug("catalog saved")
	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
