package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock that advances one minute per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, time.March, 9, 14, 30, 5, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newCatalog(t *testing.T, opts ...Option) (*Catalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library_data.json")
	cat, err := NewCatalog(NewJSONFile(path), append([]Option{WithClock(fixedClock())}, opts...)...)
	require.NoError(t, err)
	return cat, path
}

func reopen(t *testing.T, path string) *Catalog {
	t.Helper()
	cat, err := NewCatalog(NewJSONFile(path))
	require.NoError(t, err)
	return cat
}

func fakeBook() Book {
	info := gofakeit.Book()
	return NewBook(info.Title, info.Author, info.Genre, BookTypes[gofakeit.IntRange(0, len(BookTypes)-1)])
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	cat, path := newCatalog(t)

	var added []Book
	for i := 0; i < 25; i++ {
		b := fakeBook()
		require.NoError(t, cat.Add(b))
		added = append(added, b)
	}

	assert.Equal(t, added, cat.All())
	assert.Equal(t, len(added), cat.Len())
	assert.Equal(t, added, reopen(t, path).All(), "order must survive reload")
}

func TestMissingFileStartsEmpty(t *testing.T) {
	cat, path := newCatalog(t)

	assert.Empty(t, cat.All())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing should be written before the first mutation")
}

func TestRemoveIsCaseInsensitive(t *testing.T) {
	cat, path := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Dune", "Frank Herbert", "Sci-Fi", Fiction)))

	ok, err := cat.Remove("dune")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, cat.All())
	assert.Empty(t, reopen(t, path).All())
}

func TestRemoveMissingOnEmptyCatalog(t *testing.T) {
	cat, _ := newCatalog(t)

	ok, err := cat.Remove("NoSuchBook")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cat.All())
}

func TestRemoveFirstDuplicate(t *testing.T) {
	cat, _ := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Notes", "First", "Misc", General)))
	require.NoError(t, cat.Add(NewBook("notes", "Second", "Misc", General)))

	ok, err := cat.Remove("NOTES")
	require.NoError(t, err)
	require.True(t, ok)

	books := cat.All()
	require.Len(t, books, 1)
	assert.Equal(t, "Second", books[0].Author)
}

func TestSearchTitleAndAuthor(t *testing.T) {
	cat, _ := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Library Science", "A", "Education", Reference)))
	require.NoError(t, cat.Add(NewBook("Math", "B", "Science", NonFiction)))
	require.NoError(t, cat.Add(NewBook("Emma", "Jane Austen", "Novel", Fiction)))

	got := cat.Search("lib")
	require.Len(t, got, 1)
	assert.Equal(t, "Library Science", got[0].Title)

	got = cat.Search("AUSTEN")
	require.Len(t, got, 1)
	assert.Equal(t, "Emma", got[0].Title)

	assert.Empty(t, cat.Search("zzz"))
	assert.Len(t, cat.Search(""), 3, "empty keyword matches everything")
}

func TestSearchDoesNotShareState(t *testing.T) {
	cat, _ := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Dune", "Frank Herbert", "Sci-Fi", Fiction)))

	got := cat.Search("dune")
	got[0].Title = "changed"
	all := cat.All()
	all[0].Author = "changed"

	assert.Equal(t, NewBook("Dune", "Frank Herbert", "Sci-Fi", Fiction), cat.All()[0])
}

func TestBorrowReturnScenario(t *testing.T) {
	cat, path := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("1984", "Orwell", "Dystopia", Fiction)))

	b := cat.All()[0]
	assert.True(t, b.Available)
	assert.True(t, b.BorrowedOn.IsZero())
	assert.True(t, b.ReturnedOn.IsZero())

	ok, err := cat.Borrow("1984")
	require.NoError(t, err)
	require.True(t, ok)
	b = cat.All()[0]
	assert.False(t, b.Available)
	require.False(t, b.BorrowedOn.IsZero())
	borrowedOn := b.BorrowedOn

	ok, err = cat.Borrow("1984")
	require.NoError(t, err)
	assert.False(t, ok, "already borrowed")
	assert.Equal(t, b, cat.All()[0])

	ok, err = cat.Return("1984")
	require.NoError(t, err)
	require.True(t, ok)
	b = cat.All()[0]
	assert.True(t, b.Available)
	assert.False(t, b.ReturnedOn.IsZero())
	assert.True(t, b.BorrowedOn.Equal(borrowedOn), "return keeps the borrow timestamp")
	assert.True(t, b.ReturnedOn.After(b.BorrowedOn))

	stored := reopen(t, path).All()[0]
	assert.Equal(t, b.Record(), stored.Record())
}

func TestReturnAvailableBookFails(t *testing.T) {
	cat, _ := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Emma", "Jane Austen", "Novel", Fiction)))
	before := cat.All()

	ok, err := cat.Return("emma")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, cat.All())

	ok, err = cat.Borrow("Missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBorrowSkipsCheckedOutDuplicate(t *testing.T) {
	cat, _ := newCatalog(t)
	require.NoError(t, cat.Add(NewBook("Atlas", "One", "Maps", Reference)))
	require.NoError(t, cat.Add(NewBook("Atlas", "Two", "Maps", Reference)))

	for _, want := range []bool{true, true, false} {
		ok, err := cat.Borrow("atlas")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
	for _, b := range cat.All() {
		assert.False(t, b.Available)
	}
}

func TestTimestampsDropSubseconds(t *testing.T) {
	at := time.Date(2025, time.January, 2, 3, 4, 5, 987654321, time.Local)
	cat, _ := newCatalog(t, WithClock(func() time.Time { return at }))
	require.NoError(t, cat.Add(NewBook("Emma", "Jane Austen", "Novel", Fiction)))

	_, err := cat.Borrow("Emma")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.All()[0].BorrowedOn.Nanosecond())
	assert.Equal(t, "2025-01-02 03:04:05", *cat.All()[0].Record().BorrowedOn)
}

func TestLoadUnknownTypeFallsBackToGeneral(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_data.json")
	data := `[
    {
        "title": "Mystery",
        "author": "Nobody",
        "genre": "Unknown",
        "available": false,
        "borrowed_on": "2024-05-01 10:00:00",
        "returned_on": null,
        "book_type": "Unknown"
    }
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	books := reopen(t, path).All()
	require.Len(t, books, 1)
	assert.Equal(t, General, books[0].Type)
	assert.False(t, books[0].Available)
	assert.Equal(t, "2024-05-01 10:00:00", books[0].BorrowedOn.Format(TimeLayout))
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": `), 0o644))

	_, err := NewCatalog(NewJSONFile(path))
	assert.Error(t, err)
}

type failingStorage struct{ err error }

func (f failingStorage) Load() ([]Record, error) { return nil, nil }
func (f failingStorage) Save([]Record) error     { return f.err }

func TestSaveErrorPropagates(t *testing.T) {
	boom := os.ErrPermission
	cat, err := NewCatalog(failingStorage{err: boom})
	require.NoError(t, err)

	err = cat.Add(NewBook("Emma", "Jane Austen", "Novel", Fiction))
	assert.ErrorIs(t, err, boom)

	_, err = cat.Borrow("Emma")
	assert.ErrorIs(t, err, boom)

	ok, err := cat.Remove("nothing")
	assert.NoError(t, err, "a failed lookup never touches storage")
	assert.False(t, ok)
}

func TestOpenCatalogSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	cat, err := OpenCatalog("", path, WithClock(fixedClock()))
	require.NoError(t, err)
	require.NoError(t, cat.Add(NewBook("Emma", "Jane Austen", "Novel", Fiction)))
	_, err = cat.Borrow("EMMA")
	require.NoError(t, err)
	want := cat.All()
	require.NoError(t, cat.Close())

	cat, err = OpenCatalog(StorageSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	require.Len(t, cat.All(), 1)
	assert.Equal(t, want[0].Record(), cat.All()[0].Record())
}

func TestOpenCatalogUnknownKind(t *testing.T) {
	_, err := OpenCatalog("yaml", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, ErrUnknownStorage)
}
