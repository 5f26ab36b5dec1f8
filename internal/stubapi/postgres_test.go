package stubapi

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

func setupMockPostgresDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresRepository(db, zap.NewNop())
}

func TestPostgresCredential(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"username", "rank", "first_name", "last_name", "position", "department", "role", "password_hash",
	}).AddRow("clerk", "นาย", "สมชาย", "ใจดี", "เสมียน", "ฝ่ายช่าง", "user", "$2a$hash")
	mock.ExpectQuery(`SELECT`).WithArgs("clerk").WillReturnRows(rows)

	u, hash, err := repo.Credential(context.Background(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, "ฝ่ายช่าง", u.Department)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "$2a$hash", hash)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCredential_NotFound(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, _, err := repo.Credential(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateUser_Duplicate(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateUser(context.Background(), domain.User{Username: "clerk", Role: domain.RoleUser}, "h")
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateUser_NotFound(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WithArgs("clerk", "", "", "", "", "", domain.RoleUser, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUser(context.Background(), domain.User{Username: "clerk", Role: domain.RoleUser}, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPersonnel(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "rank", "first_name", "last_name", "position", "specialty", "department"}).
		AddRow("p1", "จ.อ.", "หนึ่ง", "ใจดี", "ช่าง", "สื่อสาร", "ฝ่ายช่าง").
		AddRow("p2", "จ.ท.", "สอง", "ใจดี", "ช่าง", "สื่อสาร", "ฝ่ายช่าง")
	mock.ExpectQuery(`SELECT id, rank`).WithArgs("ฝ่ายช่าง", "").WillReturnRows(rows)

	people, err := repo.ListPersonnel(context.Background(), "ฝ่ายช่าง", "")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "จ.ท. สอง ใจดี", people[1].DisplayName())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplacePersonnel_RollsBack(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM personnel`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO personnel`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ReplacePersonnel(context.Background(), []domain.Person{{ID: "p1"}})
	assert.ErrorIs(t, err, sql.ErrConnDone)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetReport(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "date", "department", "submitted_by", "timestamp", "items"}).
		AddRow("r1", "2024-06-05", "ฝ่ายช่าง", "clerk", "2024-06-05T09:30:00Z",
			`[{"personnel_id":"p1","personnel_name":"จ.อ. หนึ่ง ใจดี","status":"ลาพักผ่อน","details":"","start_date":"2024-06-05","end_date":"2024-06-07"}]`)
	mock.ExpectQuery(`SELECT id, date`).WithArgs("r1").WillReturnRows(rows)

	rep, err := repo.GetReport(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, domain.StatusVacation, rep.Items[0].Status)

	mock.ExpectQuery(`SELECT id, date`).WithArgs("r2").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetReport(context.Background(), "r2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresArchiveReports(t *testing.T) {
	db, mock, repo := setupMockPostgresDB(t)
	defer db.Close()

	archived := []domain.Report{{
		ID: "a1", Year: 2024, Month: 6, Date: "2024-06-05", Department: "ฝ่ายช่าง",
		SubmittedBy: "clerk", Timestamp: "2024-06-05T09:30:00Z", Items: []domain.StatusEntry{},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO archived_reports`).
		WithArgs("a1", 2024, 6, "2024-06-05", "ฝ่ายช่าง", "clerk", "2024-06-05T09:30:00Z", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM status_reports`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ArchiveReports(context.Background(), archived, []string{"r1"}))
	require.NoError(t, mock.ExpectationsWereMet())
}
