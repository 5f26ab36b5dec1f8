package app

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/export"
	"github.com/jeerawut3427/personal-system/internal/pane"
)

const (
	msgImportFailed   = "เกิดข้อผิดพลาดในการประมวลผลไฟล์ Excel"
	msgPersonNotFound = "ไม่พบข้อมูลกำลังพล"
	msgUserNotFound   = "ไม่พบผู้ใช้"
)

// SearchPersonnel filters the personnel pane and returns to page 1.
func (a *App) SearchPersonnel(ctx context.Context, term string) error {
	a.mu.Lock()
	a.personnelSearch, a.personnelPage = term, 1
	a.mu.Unlock()
	return a.open(ctx, pane.Personnel)
}

// SetPersonnelPage moves the personnel pane to page n.
func (a *App) SetPersonnelPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	a.mu.Lock()
	a.personnelPage = n
	a.mu.Unlock()
	return a.open(ctx, pane.Personnel)
}

// SearchUsers filters the user pane and returns to page 1.
func (a *App) SearchUsers(ctx context.Context, term string) error {
	a.mu.Lock()
	a.userSearch, a.userPage = term, 1
	a.mu.Unlock()
	return a.open(ctx, pane.Admin)
}

// SetUserPage moves the user pane to page n.
func (a *App) SetUserPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	a.mu.Lock()
	a.userPage = n
	a.mu.Unlock()
	return a.open(ctx, pane.Admin)
}

// SavePersonnel adds p, or updates it when p.ID is set.
func (a *App) SavePersonnel(ctx context.Context, p domain.Person) error {
	if err := p.Validate(); err != nil {
		return a.fail(err)
	}
	action := "add_personnel"
	if p.ID != "" {
		action = "update_personnel"
	}
	return a.send(ctx, action, map[string]any{"data": p}, pane.Personnel)
}

func (a *App) DeletePersonnel(ctx context.Context, id string) error {
	return a.send(ctx, "delete_personnel", map[string]string{"id": id}, pane.Personnel)
}

// FindPersonnel fetches the full roster and returns the person with id.
func (a *App) FindPersonnel(ctx context.Context, id string) (*domain.Person, error) {
	resp, err := a.client.Send(ctx, "list_personnel", map[string]any{"fetchAll": true})
	if err != nil {
		return nil, a.fail(err)
	}
	if err := resp.Err(); err != nil {
		return nil, a.fail(err)
	}
	var people []domain.Person
	if err := resp.Decode("personnel", &people); err != nil {
		return nil, a.fail(err)
	}
	for i := range people {
		if people[i].ID == id {
			return &people[i], nil
		}
	}
	return nil, a.fail(domain.Invalid(msgPersonNotFound))
}

// SaveUser creates u when isNew, otherwise updates it. An empty password
// on update keeps the current one.
func (a *App) SaveUser(ctx context.Context, u domain.User, isNew bool) error {
	if err := u.Validate(isNew); err != nil {
		return a.fail(err)
	}
	action := "update_user"
	if isNew {
		action = "add_user"
	}
	return a.send(ctx, action, map[string]any{"data": u}, pane.Admin)
}

func (a *App) DeleteUser(ctx context.Context, username string) error {
	return a.send(ctx, "delete_user", map[string]string{"username": username}, pane.Admin)
}

// FindUser fetches the user list and returns the account named username.
func (a *App) FindUser(ctx context.Context, username string) (*domain.User, error) {
	resp, err := a.client.Send(ctx, "list_users", map[string]any{"fetchAll": true})
	if err != nil {
		return nil, a.fail(err)
	}
	if err := resp.Err(); err != nil {
		return nil, a.fail(err)
	}
	var users []domain.User
	if err := resp.Decode("users", &users); err != nil {
		return nil, a.fail(err)
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, a.fail(domain.Invalid(msgUserNotFound))
}

// ImportPersonnel replaces the roster with the rows of an .xlsx workbook.
func (a *App) ImportPersonnel(ctx context.Context, r io.Reader) error {
	people, err := export.ParsePersonnel(r)
	if err != nil {
		a.logger.Warn("Failed to parse personnel workbook", zap.Error(err))
		a.notify.Failure(msgImportFailed)
		return err
	}
	return a.send(ctx, "import_personnel", map[string]any{"personnel": people}, pane.Personnel)
}

// PersonnelTemplate writes an empty import workbook and returns its path.
func (a *App) PersonnelTemplate() (string, error) {
	data, err := export.PersonnelTemplate()
	if err != nil {
		return "", a.fail(err)
	}
	path, err := a.writeFile("personnel-template.xlsx", data)
	if err != nil {
		return "", a.fail(err)
	}
	return path, nil
}
