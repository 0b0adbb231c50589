package books

import (
	"context"
	"database/sql"
	"errors"
)

// Finder is the lookup the lending engine consumes. GetByID returns
// (nil, nil) when the book does not exist; callers decide what absence
// means in their own error taxonomy.
type Finder interface {
	GetByID(ctx context.Context, bookID int64) (*Book, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) Finder {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, bookID int64) (*Book, error) {
	const q = `
SELECT book_id, title, author
FROM books
WHERE book_id = ?
LIMIT 1
`
	var b Book
	err := s.db.QueryRowContext(ctx, q, bookID).Scan(&b.BookID, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
