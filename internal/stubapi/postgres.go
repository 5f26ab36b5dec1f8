package stubapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	rank          TEXT NOT NULL DEFAULT '',
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	position      TEXT NOT NULL DEFAULT '',
	department    TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	username   TEXT NOT NULL REFERENCES users (username) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS personnel (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	rank       TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	position   TEXT NOT NULL,
	specialty  TEXT NOT NULL,
	department TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS status_reports (
	id           TEXT PRIMARY KEY,
	date         TEXT NOT NULL,
	department   TEXT NOT NULL DEFAULT '',
	submitted_by TEXT NOT NULL DEFAULT '',
	timestamp    TEXT NOT NULL,
	items        JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS archived_reports (
	id           TEXT PRIMARY KEY,
	year         INTEGER NOT NULL,
	month        INTEGER NOT NULL,
	date         TEXT NOT NULL,
	department   TEXT NOT NULL DEFAULT '',
	submitted_by TEXT NOT NULL DEFAULT '',
	timestamp    TEXT NOT NULL,
	items        JSONB NOT NULL
);`

// PostgresRepository stores the action catalog's data in PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// EnsureSchema creates the tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, token, username string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (token, username) VALUES ($1, $2)`, token, username)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SessionUser(ctx context.Context, token string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT u.username, u.rank, u.first_name, u.last_name, u.position, u.department, u.role
		FROM sessions s JOIN users u ON s.username = u.username
		WHERE s.token = $1`, token)
	var u domain.User
	if err := row.Scan(&u.Username, &u.Rank, &u.FirstName, &u.LastName, &u.Position, &u.Department, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Credential(ctx context.Context, username string) (*domain.User, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, rank, first_name, last_name, position, department, role, password_hash
		FROM users WHERE username = $1`, username)
	var (
		u    domain.User
		hash string
	)
	if err := row.Scan(&u.Username, &u.Rank, &u.FirstName, &u.LastName, &u.Position, &u.Department, &u.Role, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}
	return &u, hash, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, rank, first_name, last_name, position, department, role
		FROM users
		WHERE $1 = '' OR username ILIKE '%' || $1 || '%' OR first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%' OR department ILIKE '%' || $1 || '%'
		ORDER BY username`, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Username, &u.Rank, &u.FirstName, &u.LastName, &u.Position, &u.Department, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u domain.User, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, rank, first_name, last_name, position, department, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.Username, hash, u.Rank, u.FirstName, u.LastName, u.Position, u.Department, u.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, u domain.User, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET rank = $2, first_name = $3, last_name = $4, position = $5, department = $6, role = $7,
		       password_hash = COALESCE(NULLIF($8, ''), password_hash)
		WHERE username = $1`,
		u.Username, u.Rank, u.FirstName, u.LastName, u.Position, u.Department, u.Role, hash)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPersonnel(ctx context.Context, dept, search string) ([]domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, rank, first_name, last_name, position, specialty, department
		FROM personnel
		WHERE ($1 = '' OR department = $1)
		  AND ($2 = '' OR first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%'
		       OR position ILIKE '%' || $2 || '%')
		ORDER BY seq`, dept, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	defer rows.Close()

	out := []domain.Person{}
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.ID, &p.Rank, &p.FirstName, &p.LastName, &p.Position, &p.Specialty, &p.Department); err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const insertPerson = `
	INSERT INTO personnel (id, rank, first_name, last_name, position, specialty, department)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *PostgresRepository) CreatePersonnel(ctx context.Context, p domain.Person) error {
	if _, err := r.db.ExecContext(ctx, insertPerson,
		p.ID, p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department); err != nil {
		return fmt.Errorf("failed to create personnel: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePersonnel(ctx context.Context, p domain.Person) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE personnel SET rank = $2, first_name = $3, last_name = $4, position = $5, specialty = $6, department = $7
		WHERE id = $1`,
		p.ID, p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department)
	if err != nil {
		return fmt.Errorf("failed to update personnel: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) DeletePersonnel(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM personnel WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete personnel: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ReplacePersonnel(ctx context.Context, people []domain.Person) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM personnel`); err != nil {
			return fmt.Errorf("failed to clear personnel: %w", err)
		}
		for _, p := range people {
			if _, err := tx.ExecContext(ctx, insertPerson,
				p.ID, p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department); err != nil {
				return fmt.Errorf("failed to import personnel: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) SaveReport(ctx context.Context, rep domain.Report) error {
	items, err := json.Marshal(rep.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO status_reports (id, date, department, submitted_by, timestamp, items)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, department = EXCLUDED.department,
		    submitted_by = EXCLUDED.submitted_by, timestamp = EXCLUDED.timestamp, items = EXCLUDED.items`,
		rep.ID, rep.Date, rep.Department, rep.SubmittedBy, rep.Timestamp, string(items))
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

const selectReport = `SELECT id, date, department, submitted_by, timestamp, items FROM status_reports`

func scanReport(sc interface{ Scan(...any) error }) (domain.Report, error) {
	var (
		rep   domain.Report
		items []byte
	)
	if err := sc.Scan(&rep.ID, &rep.Date, &rep.Department, &rep.SubmittedBy, &rep.Timestamp, &items); err != nil {
		return rep, err
	}
	if err := json.Unmarshal(items, &rep.Items); err != nil {
		return rep, fmt.Errorf("failed to decode items of report %s: %w", rep.ID, err)
	}
	return rep, nil
}

func (r *PostgresRepository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, selectReport+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &rep, nil
}

func (r *PostgresRepository) ListReports(ctx context.Context) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, selectReport+` ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	out := []domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ArchiveReports(ctx context.Context, archived []domain.Report, liveIDs []string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, rep := range archived {
			items, err := json.Marshal(rep.Items)
			if err != nil {
				return fmt.Errorf("failed to encode items: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO archived_reports (id, year, month, date, department, submitted_by, timestamp, items)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				rep.ID, rep.Year, rep.Month, rep.Date, rep.Department, rep.SubmittedBy, rep.Timestamp, string(items)); err != nil {
				return fmt.Errorf("failed to archive report: %w", err)
			}
		}
		if len(liveIDs) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM status_reports WHERE id = ANY($1)`, pq.Array(liveIDs)); err != nil {
				return fmt.Errorf("failed to delete archived reports: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListArchived(ctx context.Context) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, year, month, date, department, submitted_by, timestamp, items
		FROM archived_reports ORDER BY year DESC, month DESC, date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived reports: %w", err)
	}
	defer rows.Close()

	out := []domain.Report{}
	for rows.Next() {
		var (
			rep   domain.Report
			items []byte
		)
		if err := rows.Scan(&rep.ID, &rep.Year, &rep.Month, &rep.Date, &rep.Department, &rep.SubmittedBy, &rep.Timestamp, &items); err != nil {
			return nil, fmt.Errorf("failed to scan archived report: %w", err)
		}
		if err := json.Unmarshal(items, &rep.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items of archived report %s: %w", rep.ID, err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("Rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
