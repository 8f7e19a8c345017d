package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/people-indicators/internal/domain"
)

// MemoryDSN keeps every session in process memory; nothing outlives the
// server.
const MemoryDSN = "file:people?mode=memory&cache=shared"

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	file_name     TEXT NOT NULL DEFAULT '',
	gender_filter TEXT NOT NULL DEFAULT 'all',
	role_filter   TEXT NOT NULL DEFAULT 'all',
	year_filter   INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	loaded_at     DATETIME,
	expires_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expires_at ON sessions(expires_at);
CREATE TABLE IF NOT EXISTS employees (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	row_num          INTEGER NOT NULL,
	hire_date        TEXT,
	termination_date TEXT,
	gender           TEXT NOT NULL DEFAULT '',
	role             TEXT NOT NULL DEFAULT '',
	birth_date       TEXT,
	married          TEXT NOT NULL DEFAULT '',
	has_children     TEXT NOT NULL DEFAULT '',
	state            TEXT NOT NULL DEFAULT '',
	city             TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS employees_session ON employees(session_id);
`

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database and creates the schema when missing.
// An empty dsn selects MemoryDSN.
func New(dsn string) (*Repository, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// A single connection keeps shared-cache memory databases alive and
	// avoids SQLITE_LOCKED between readers and the upload writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Sessions ──────────────────────────────────────────────────────────────────

func (r *Repository) Create(ctx context.Context, expiresAt time.Time) (*domain.Session, error) {
	s := &domain.Session{
		ID:        uuid.NewString(),
		Filter:    domain.Filter{}.Normalize(),
		CreatedAt: stamp(time.Now()),
		ExpiresAt: stamp(expiresAt),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, gender_filter, role_filter, year_filter, created_at, expires_at)
		VALUES (?,?,?,?,?,?)`,
		s.ID, s.Filter.Gender, s.Filter.Role, s.Filter.Year, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) Get(ctx context.Context, id string, now time.Time) (*domain.Session, error) {
	s := &domain.Session{}
	var loadedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, file_name, gender_filter, role_filter, year_filter,
		       created_at, loaded_at, expires_at
		FROM sessions WHERE id=?`, id).Scan(
		&s.ID, &s.FileName, &s.Filter.Gender, &s.Filter.Role, &s.Filter.Year,
		&s.CreatedAt, &loadedAt, &s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !now.Before(s.ExpiresAt) {
		if err := r.Destroy(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrSessionNotFound
	}
	if !loadedAt.Valid {
		return s, nil
	}
	s.LoadedAt = &loadedAt.Time

	rows, err := r.db.QueryContext(ctx, `
		SELECT row_num, hire_date, termination_date, gender, role, birth_date,
		       married, has_children, state, city
		FROM employees WHERE session_id=? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	s.Roster = domain.Roster{}
	for rows.Next() {
		var e domain.Employee
		var hire, term, birth sql.NullString
		if err := rows.Scan(
			&e.Row, &hire, &term, &e.Gender, &e.Role, &birth,
			&e.Married, &e.HasChildren, &e.State, &e.City,
		); err != nil {
			return nil, err
		}
		e.HireDate = scanDate(hire)
		e.TerminationDate = scanDate(term)
		e.BirthDate = scanDate(birth)
		s.Roster = append(s.Roster, e)
	}
	return s, rows.Err()
}

// ReplaceRoster drops the previous roster and stores the new one in a single
// transaction; the filter goes back to its defaults.
func (r *Repository) ReplaceRoster(ctx context.Context, id, fileName string, roster domain.Roster, loadedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	f := domain.Filter{}.Normalize()
	res, err := tx.ExecContext(ctx, `
		UPDATE sessions
		SET file_name=?, loaded_at=?, gender_filter=?, role_filter=?, year_filter=?
		WHERE id=?`,
		fileName, stamp(loadedAt), f.Gender, f.Role, f.Year, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE session_id=?`, id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (
			session_id, row_num, hire_date, termination_date, gender, role,
			birth_date, married, has_children, state, city
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range roster {
		if _, err := stmt.ExecContext(ctx,
			id, e.Row, dateValue(e.HireDate), dateValue(e.TerminationDate),
			e.Gender, e.Role, dateValue(e.BirthDate),
			e.Married, e.HasChildren, e.State, e.City,
		); err != nil {
			return fmt.Errorf("insert row %d: %w", e.Row, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) SaveFilter(ctx context.Context, id string, f domain.Filter) error {
	f = f.Normalize()
	return r.execOne(ctx, `
		UPDATE sessions SET gender_filter=?, role_filter=?, year_filter=? WHERE id=?`,
		f.Gender, f.Role, f.Year, id,
	)
}

func (r *Repository) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	return r.execOne(ctx, `UPDATE sessions SET expires_at=? WHERE id=?`, stamp(expiresAt), id)
}

func (r *Repository) Destroy(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	return err
}

func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, stamp(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountActive returns how many sessions have not expired yet.
func (r *Repository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE expires_at > ?`, stamp(now)).Scan(&n)
	return n, err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (r *Repository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// stamp normalises timestamps to whole UTC seconds so the stored text
// compares in chronological order.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func scanDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
