package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/observe"
)

// Table is the hosted table every query reads.
const Table = "pharmacies"

// Match selects how Query.Value is compared with Query.Field.
type Match int

const (
	MatchAll Match = iota
	MatchExact
	MatchPrefix
	MatchContains
)

// Query is a single filtered read of the pharmacies table.
type Query struct {
	Field domain.Field
	Match Match
	Value string
	Limit int
}

func (q Query) where() (string, []any) {
	switch q.Match {
	case MatchExact:
		return " WHERE " + q.Field.Column() + " = ?", []any{q.Value}
	case MatchPrefix:
		return " WHERE LOWER(CAST(" + q.Field.Column() + " AS TEXT)) LIKE LOWER(?)", []any{q.Value + "%"}
	case MatchContains:
		return " WHERE LOWER(CAST(" + q.Field.Column() + " AS TEXT)) LIKE LOWER(?)", []any{"%" + q.Value + "%"}
	default:
		return "", nil
	}
}

// Store issues read-only queries through the shared gateway handle.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// New constructs a Store. A zero timeout leaves the caller's deadline alone.
func New(db *sqlx.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

// Pharmacies returns the rows matching q ordered by kendra code.
func (s *Store) Pharmacies(ctx context.Context, q Query) ([]domain.Pharmacy, error) {
	where, args := q.where()
	query := "SELECT " + strings.Join(domain.PharmacyColumns, ", ") + " FROM " + Table + where + ` ORDER BY "Kendra Code"`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	pharmacies := []domain.Pharmacy{}
	err := s.db.SelectContext(ctx, &pharmacies, s.db.Rebind(query), args...)
	observeQuery("pharmacies", start, err)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Table, err)
	}
	return pharmacies, nil
}

// Values returns the raw q.Field column of the rows matching q. NULL values
// come back as empty strings.
func (s *Store) Values(ctx context.Context, q Query) ([]string, error) {
	where, args := q.where()
	query := "SELECT " + q.Field.Column() + " FROM " + Table + where
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var rows []sql.NullString
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...)
	observeQuery("values", start, err)
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", Table, q.Field.Column(), err)
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = row.String
	}
	return values, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func observeQuery(name string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observe.StoreQueryDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())
}
