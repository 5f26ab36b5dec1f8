package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const (
	msgMissingDates   = "กรุณากรอกวันที่เริ่มต้นและสิ้นสุดสำหรับรายการที่เลือก"
	msgBadDateRange   = "วันที่เริ่มต้นต้องไม่อยู่หลังวันที่สิ้นสุด"
	msgEmptyReport    = "ไม่พบรายการที่จะส่งยอด"
	msgReportMissing  = "ไม่พบรายงานที่ต้องการแก้ไข"
	msgOtherDept      = "ไม่สามารถส่งยอดให้แผนกอื่นได้"
	msgNothingArchive = "ไม่มีข้อมูลรายงานที่จะส่งออก"
)

func markSource(reports []domain.Report, source string) []domain.Report {
	for i := range reports {
		reports[i].Source = source
	}
	return reports
}

// currentReports returns live reports dated inside this week, filtered by
// department when dept is non-empty.
func (h *Handler) currentReports(ctx context.Context, dept string) ([]domain.Report, error) {
	all, err := h.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	period := domain.PeriodOf(h.today())
	out := []domain.Report{}
	for _, r := range all {
		if dept != "" && r.Department != dept {
			continue
		}
		if period.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return markSource(out, domain.SourceLive), nil
}

func validateItems(items []domain.StatusEntry) string {
	if len(items) == 0 {
		return msgEmptyReport
	}
	for _, it := range items {
		if !it.Status.Valid() || !it.Status.Active() {
			return fmt.Sprintf("สถานะไม่ถูกต้อง: %s", it.Status)
		}
		if it.StartDate == "" || it.EndDate == "" {
			return msgMissingDates
		}
		start, err := domain.ParseDate(it.StartDate)
		if err != nil {
			return msgMissingDates
		}
		end, err := domain.ParseDate(it.EndDate)
		if err != nil {
			return msgMissingDates
		}
		if start.After(end) {
			return msgBadDateRange
		}
	}
	return ""
}

// submitStatusReport files or replaces a department's report for the
// current week. A report id edits that report; otherwise an existing live
// report of the same department and week is replaced in place.
func (h *Handler) submitStatusReport(ctx context.Context, session *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		Report domain.Submission `json:"report"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	sub := p.Report

	dept := session.Department
	if session.IsAdmin() && sub.Department != "" {
		dept = sub.Department
	} else if sub.Department != "" && sub.Department != dept {
		return fail(msgOtherDept), nil
	}
	if dept == "" {
		return fail(msgNoDepartment), nil
	}
	if msg := validateItems(sub.Items); msg != "" {
		return fail(msg), nil
	}
	if sub.Date == "" {
		sub.Date = domain.FormatDate(h.today())
	}

	id, message := sub.ID, "ส่งยอดกำลังพลสำเร็จ"
	if id != "" {
		prev, err := h.repo.GetReport(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return fail(msgReportMissing), nil
		}
		if err != nil {
			return nil, err
		}
		if !session.IsAdmin() && prev.Department != session.Department {
			return fail(msgOtherDept), nil
		}
		dept = prev.Department
		message = "แก้ไขรายงานสำเร็จ"
	} else {
		current, err := h.currentReports(ctx, dept)
		if err != nil {
			return nil, err
		}
		if len(current) > 0 {
			id = current[0].ID
		} else {
			id = uuid.NewString()
		}
	}

	report := domain.Report{
		ID:          id,
		Date:        sub.Date,
		Department:  dept,
		SubmittedBy: session.Username,
		Timestamp:   h.timestamp(),
		Items:       sub.Items,
	}
	if err := h.repo.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	h.notifier.Notify(ctx, TopicReportSubmitted, report)
	return ok(message).with("id", id), nil
}

func (h *Handler) statusReports(ctx context.Context, _ *domain.User, _ json.RawMessage) (reply, error) {
	reports, err := h.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	return ok("").with("reports", markSource(reports, domain.SourceLive)), nil
}

func (h *Handler) archiveReports(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		Reports []domain.Report `json:"reports"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if len(p.Reports) == 0 {
		return fail(msgNothingArchive), nil
	}

	archived := make([]domain.Report, 0, len(p.Reports))
	liveIDs := make([]string, 0, len(p.Reports))
	for _, r := range p.Reports {
		d, err := domain.ParseDate(r.Date)
		if err != nil {
			return fail(fmt.Sprintf("วันที่ของรายงานไม่ถูกต้อง: %s", r.Date)), nil
		}
		if r.ID != "" {
			liveIDs = append(liveIDs, r.ID)
		}
		if r.Timestamp == "" {
			r.Timestamp = h.timestamp()
		}
		r.ID = uuid.NewString()
		r.Year, r.Month = d.Year(), int(d.Month())
		r.Source = ""
		archived = append(archived, r)
	}
	if err := h.repo.ArchiveReports(ctx, archived, liveIDs); err != nil {
		return nil, err
	}
	h.notifier.Notify(ctx, TopicReportsArchived, map[string]any{"count": len(archived), "ids": liveIDs})
	return ok(fmt.Sprintf("เก็บรายงานจำนวน %d รายการสำเร็จ", len(archived))), nil
}

func (h *Handler) archivedReports(ctx context.Context, _ *domain.User, _ json.RawMessage) (reply, error) {
	reports, err := h.repo.ListArchived(ctx)
	if err != nil {
		return nil, err
	}
	archives := domain.Archive{}
	for _, r := range markSource(reports, domain.SourceArchive) {
		y, m := strconv.Itoa(r.Year), strconv.Itoa(r.Month)
		if archives[y] == nil {
			archives[y] = map[string][]domain.Report{}
		}
		archives[y][m] = append(archives[y][m], r)
	}
	return ok("").with("archives", archives), nil
}

// submissionHistory merges live and archived reports, newest first.
// Admins see every department.
func (h *Handler) submissionHistory(ctx context.Context, session *domain.User, _ json.RawMessage) (reply, error) {
	dept := scopeDepartment(session)
	if !session.IsAdmin() && dept == "" {
		return fail(msgNoDepartment), nil
	}
	live, err := h.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	archived, err := h.repo.ListArchived(ctx)
	if err != nil {
		return nil, err
	}

	history := []domain.Report{}
	for _, r := range markSource(live, domain.SourceLive) {
		if dept == "" || r.Department == dept {
			history = append(history, r)
		}
	}
	for _, r := range markSource(archived, domain.SourceArchive) {
		if dept == "" || r.Department == dept {
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Timestamp > history[j].Timestamp })
	return ok("").with("history", history), nil
}
