package directory

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PostgresSource reads the corp map table
type PostgresSource struct {
	dsn   string
	table string

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// NewPostgresSource creates a source; the pool is opened on first Load
func NewPostgresSource(dsn, table string) *PostgresSource {
	if table == "" {
		table = "corp_map"
	}
	return &PostgresSource{dsn: dsn, table: table}
}

// Name does not include the DSN, which may carry credentials
func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) connect(ctx context.Context) (*pgxpool.Pool, error) {
	s.once.Do(func() {
		cfg, err := pgxpool.ParseConfig(s.dsn)
		if err != nil {
			s.err = eris.Wrap(err, "parse database config")
			return
		}
		s.pool, s.err = pgxpool.NewWithConfig(ctx, cfg)
		if s.err != nil {
			s.err = eris.Wrap(s.err, "open database pool")
		}
	})
	return s.pool, s.err
}

// query builds the select for a sanitized table identifier
func (s *PostgresSource) query() string {
	return `SELECT dart_corp, LPAD(dart_corp_code::text, 8, '0'), COALESCE(stock_code, ''), COALESCE(listed_yn, '')
FROM ` + pgx.Identifier{s.table}.Sanitize() + `
WHERE dart_corp_code IS NOT NULL`
}

func (s *PostgresSource) Load(ctx context.Context) ([]Company, error) {
	pool, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, s.query())
	if err != nil {
		return nil, eris.Wrapf(err, "query %s", s.table)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		var listed string
		if err := rows.Scan(&c.Name, &c.Code, &c.StockCode, &listed); err != nil {
			return nil, eris.Wrap(err, "scan corp map row")
		}
		c.Listed = listed == "Y"
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate corp map")
	}
	return companies, nil
}

// Close releases the pool
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
