package app

import (
	"context"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/editor"
	"github.com/jeerawut3427/personal-system/internal/pane"
	"github.com/jeerawut3427/personal-system/internal/view"
)

// Form is the status editor of the submit pane, or nil before it loads.
func (a *App) Form() *editor.Form {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form
}

// edit runs fn on the form and re-renders it. Errors become failure notices.
func (a *App) edit(fn func(f *editor.Form) error) error {
	a.mu.Lock()
	f := a.form
	if f == nil {
		a.mu.Unlock()
		return a.fail(ErrNoForm)
	}
	err := fn(f)
	a.mu.Unlock()
	if err != nil {
		return a.fail(err)
	}
	a.render(view.NewSubmissionForm(f))
	return nil
}

// SelectDepartment switches the admin editor to dept, discarding edits.
func (a *App) SelectDepartment(dept string) error {
	return a.edit(func(f *editor.Form) error {
		if err := f.SelectDepartment(dept); err != nil {
			return err
		}
		a.editing = nil
		return nil
	})
}

func (a *App) SetStatus(row int, status domain.Status) error {
	return a.edit(func(f *editor.Form) error { return f.SetStatus(row, status) })
}

func (a *App) SetDetails(row int, details string) error {
	return a.edit(func(f *editor.Form) error { return f.SetDetails(row, details) })
}

func (a *App) SetDates(row int, start, end string) error {
	return a.edit(func(f *editor.Form) error { return f.SetDates(row, start, end) })
}

// AddEntry adds a linked row below row's group and returns its id.
func (a *App) AddEntry(row int) (int, error) {
	var id int
	err := a.edit(func(f *editor.Form) error {
		var err error
		id, err = f.AddEntry(row)
		return err
	})
	return id, err
}

func (a *App) RemoveEntry(row int) error {
	return a.edit(func(f *editor.Form) error { return f.RemoveEntry(row) })
}

func (a *App) ClearAll() error {
	return a.edit(func(f *editor.Form) error { return f.ClearAll() })
}

// Review validates the form and shows the review list.
func (a *App) Review() ([]domain.StatusEntry, error) {
	a.mu.Lock()
	f := a.form
	var (
		entries []domain.StatusEntry
		err     error
	)
	if f != nil {
		entries, err = f.Review()
	}
	a.mu.Unlock()
	if f == nil {
		return nil, a.fail(ErrNoForm)
	}
	if err != nil {
		return nil, a.fail(err)
	}
	a.render(view.NewReviewList(entries))
	return entries, nil
}

// BackToForm leaves the review list.
func (a *App) BackToForm() error {
	return a.edit(func(f *editor.Form) error {
		f.BackToForm()
		return nil
	})
}

// Submit sends the reviewed form and reloads the submit pane.
func (a *App) Submit(ctx context.Context) error {
	a.mu.Lock()
	f := a.form
	if f == nil {
		a.mu.Unlock()
		return a.fail(ErrNoForm)
	}
	if f.Section() != editor.SectionReview {
		a.mu.Unlock()
		if _, err := a.Review(); err != nil {
			return err
		}
		a.mu.Lock()
	}
	sub := f.Submission(a.now())
	a.mu.Unlock()

	if err := a.send(ctx, "submit_status_report", map[string]any{"report": sub}, noReload); err != nil {
		return err
	}
	a.mu.Lock()
	a.editing = nil
	a.mu.Unlock()
	return a.open(ctx, pane.SubmitStatus)
}

// EditHistoryReport opens a live report from the history pane in the editor.
func (a *App) EditHistoryReport(ctx context.Context, id string) error {
	a.mu.Lock()
	h := a.history
	a.mu.Unlock()
	if h == nil {
		return a.fail(ErrNoHistory)
	}
	report, err := h.Editable(id)
	if err != nil {
		return a.fail(err)
	}
	a.mu.Lock()
	a.editing = &report
	a.mu.Unlock()
	return a.open(ctx, pane.SubmitStatus)
}
