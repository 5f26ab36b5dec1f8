package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const msgIncomplete = "ข้อมูลไม่ครบถ้วน กรุณากรอกข้อมูลให้ครบทุกช่อง"

// scopeDepartment is the department a session may see; empty means all.
func scopeDepartment(session *domain.User) string {
	if session.IsAdmin() {
		return ""
	}
	return session.Department
}

func (h *Handler) listPersonnel(ctx context.Context, session *domain.User, raw json.RawMessage) (reply, error) {
	var req listRequest
	if err := decodePayload(raw, &req); err != nil {
		return fail(msgBadPayload), nil
	}
	dept := scopeDepartment(session)
	people, err := h.repo.ListPersonnel(ctx, dept, req.SearchTerm)
	if err != nil {
		return nil, err
	}
	if req.FetchAll {
		subs, err := h.currentReports(ctx, dept)
		if err != nil {
			return nil, err
		}
		return ok("").with("personnel", people).with("submissions", subs), nil
	}
	pageItems, page, total := paginate(people, req.Page, h.pageSize)
	return ok("").with("personnel", pageItems).with("page", page).with("total_pages", total), nil
}

type personPayload struct {
	Data domain.Person `json:"data"`
}

func (h *Handler) addPersonnel(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p personPayload
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if err := p.Data.Validate(); err != nil {
		return fail(err.Error()), nil
	}
	p.Data.ID = uuid.NewString()
	if err := h.repo.CreatePersonnel(ctx, p.Data); err != nil {
		return nil, err
	}
	return ok("เพิ่มข้อมูลกำลังพลสำเร็จ").with("id", p.Data.ID), nil
}

func (h *Handler) updatePersonnel(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p personPayload
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if p.Data.ID == "" {
		return fail(msgIncomplete), nil
	}
	if err := p.Data.Validate(); err != nil {
		return fail(err.Error()), nil
	}
	err := h.repo.UpdatePersonnel(ctx, p.Data)
	if errors.Is(err, ErrNotFound) {
		return fail("ไม่พบข้อมูลกำลังพล"), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("อัปเดตข้อมูลสำเร็จ"), nil
}

func (h *Handler) deletePersonnel(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if err := h.repo.DeletePersonnel(ctx, p.ID); err != nil {
		return nil, err
	}
	return ok("ลบข้อมูลสำเร็จ"), nil
}

// importPersonnel replaces the whole roster.
func (h *Handler) importPersonnel(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		Personnel []domain.Person `json:"personnel"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	for i := range p.Personnel {
		if err := p.Personnel[i].Validate(); err != nil {
			return fail(fmt.Sprintf("ข้อมูลแถวที่ %d: %s", i+1, err.Error())), nil
		}
		p.Personnel[i].ID = uuid.NewString()
	}
	if err := h.repo.ReplacePersonnel(ctx, p.Personnel); err != nil {
		return nil, err
	}
	return ok(fmt.Sprintf("นำเข้าข้อมูลกำลังพลจำนวน %d รายการสำเร็จ", len(p.Personnel))), nil
}
