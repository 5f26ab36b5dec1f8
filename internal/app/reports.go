package app

import (
	"context"
	"io"

	"github.com/jeerawut3427/personal-system/internal/archive"
	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/export"
	"github.com/jeerawut3427/personal-system/internal/pane"
	"github.com/jeerawut3427/personal-system/internal/view"
)

const msgNothingToExport = "ไม่มีข้อมูลรายงานที่จะส่งออก"

// ExportAndArchive writes the weekly workbook, then moves the weekly
// reports to the archive. The file is kept even if archiving fails.
func (a *App) ExportAndArchive(ctx context.Context) (string, error) {
	a.mu.Lock()
	reports := append([]domain.Report(nil), a.weekly...)
	a.mu.Unlock()
	if len(reports) == 0 {
		return "", a.fail(domain.Invalid(msgNothingToExport))
	}

	path, err := a.exportWorkbook(reports, export.DailyFileName(a.now()))
	if err != nil {
		return "", err
	}
	if err := a.send(ctx, "archive_reports", map[string]any{"reports": reports}, pane.Report); err != nil {
		return path, err
	}
	return path, nil
}

func (a *App) exportWorkbook(reports []domain.Report, name string) (string, error) {
	data, err := export.Workbook(reports)
	if err != nil {
		return "", a.fail(err)
	}
	path, err := a.writeFile(name, data)
	if err != nil {
		return "", a.fail(err)
	}
	return path, nil
}

func (a *App) archiveBrowser() (*archive.Browser, error) {
	a.mu.Lock()
	b := a.browser
	a.mu.Unlock()
	if b == nil {
		return nil, a.fail(ErrNoArchive)
	}
	return b, nil
}

// ArchiveMonths lists the months of year in the loaded archive.
func (a *App) ArchiveMonths(year string) ([]string, error) {
	b, err := a.archiveBrowser()
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	months := b.Months(year)
	a.mu.Unlock()
	a.render(monthPicker(months))
	return months, nil
}

// ShowArchive lists the archived reports of year/month by day.
func (a *App) ShowArchive(year, month string) ([]archive.DayGroup, error) {
	b, err := a.archiveBrowser()
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	days, err := b.Select(year, month)
	a.mu.Unlock()
	if err != nil {
		return nil, a.fail(err)
	}
	a.render(view.NewArchiveDays(days))
	return days, nil
}

// DownloadArchiveDay exports the reports of one day of the shown month.
func (a *App) DownloadArchiveDay(date string) (string, error) {
	b, err := a.archiveBrowser()
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	reports, err := b.DayReports(date)
	a.mu.Unlock()
	if err != nil {
		return "", a.fail(err)
	}
	return a.exportWorkbook(reports, export.ArchiveDayFileName(date))
}

// ExportMonthlySummary exports every report of the shown month.
func (a *App) ExportMonthlySummary() (string, error) {
	b, err := a.archiveBrowser()
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	reports, err := b.MonthReports()
	monthName, yearBE := b.MonthLabel()
	a.mu.Unlock()
	if err != nil {
		return "", a.fail(err)
	}
	return a.exportWorkbook(reports, export.MonthlyFileName(monthName, yearBE))
}

// ShowHistory narrows the history pane to year/month.
func (a *App) ShowHistory(year, month string) ([]archive.HistoryItem, error) {
	a.mu.Lock()
	h := a.history
	var (
		items []archive.HistoryItem
		err   error
	)
	if h != nil {
		items, err = h.Select(year, month)
	}
	a.mu.Unlock()
	if h == nil {
		return nil, a.fail(ErrNoHistory)
	}
	if err != nil {
		return nil, a.fail(err)
	}
	a.render(view.NewHistoryList(items))
	return items, nil
}

type monthPicker []string

func (m monthPicker) Render(w io.Writer) error {
	return view.RenderOptions(w, view.MonthOptions(m))
}
