package stubapi

import (
	"context"
	"errors"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// Repository is the storage behind the action catalog.
type Repository interface {
	CreateSession(ctx context.Context, token, username string) error
	// SessionUser returns ErrNotFound for an unknown token.
	SessionUser(ctx context.Context, token string) (*domain.User, error)
	DeleteSession(ctx context.Context, token string) error

	// Credential returns the user and its bcrypt hash.
	Credential(ctx context.Context, username string) (*domain.User, string, error)
	ListUsers(ctx context.Context, search string) ([]domain.User, error)
	CreateUser(ctx context.Context, u domain.User, hash string) error
	// UpdateUser keeps the stored hash when hash is empty.
	UpdateUser(ctx context.Context, u domain.User, hash string) error
	DeleteUser(ctx context.Context, username string) error

	// ListPersonnel filters by department when dept is non-empty.
	ListPersonnel(ctx context.Context, dept, search string) ([]domain.Person, error)
	CreatePersonnel(ctx context.Context, p domain.Person) error
	UpdatePersonnel(ctx context.Context, p domain.Person) error
	DeletePersonnel(ctx context.Context, id string) error
	ReplacePersonnel(ctx context.Context, people []domain.Person) error

	// SaveReport inserts or replaces a live report by id.
	SaveReport(ctx context.Context, r domain.Report) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	// ListReports returns live reports, newest first.
	ListReports(ctx context.Context) ([]domain.Report, error)
	// ArchiveReports stores archived copies and removes the live originals
	// listed in liveIDs, atomically where the backend allows.
	ArchiveReports(ctx context.Context, archived []domain.Report, liveIDs []string) error
	// ListArchived returns archived reports ordered by year, month and date, newest first.
	ListArchived(ctx context.Context) ([]domain.Report, error)
}
