package stubapi

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

type listRequest struct {
	SearchTerm string `json:"searchTerm"`
	Page       int    `json:"page"`
	FetchAll   bool   `json:"fetchAll"`
}

func (h *Handler) listUsers(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var req listRequest
	if err := decodePayload(raw, &req); err != nil {
		return fail(msgBadPayload), nil
	}
	users, err := h.repo.ListUsers(ctx, req.SearchTerm)
	if err != nil {
		return nil, err
	}
	if req.FetchAll {
		return ok("").with("users", users), nil
	}
	pageItems, page, total := paginate(users, req.Page, h.pageSize)
	return ok("").with("users", pageItems).with("page", page).with("total_pages", total), nil
}

type userPayload struct {
	Data domain.User `json:"data"`
}

func (h *Handler) addUser(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p userPayload
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if p.Data.Role == "" {
		p.Data.Role = domain.RoleUser
	}
	if err := p.Data.Validate(true); err != nil {
		return fail(err.Error()), nil
	}
	hash, err := HashPassword(p.Data.Password)
	if err != nil {
		return nil, err
	}
	err = h.repo.CreateUser(ctx, p.Data, hash)
	if errors.Is(err, ErrExists) {
		return fail("Username นี้มีผู้ใช้อยู่แล้ว"), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("เพิ่มผู้ใช้ '" + p.Data.Username + "' สำเร็จ"), nil
}

func (h *Handler) updateUser(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p userPayload
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if err := p.Data.Validate(false); err != nil {
		return fail(err.Error()), nil
	}
	var hash string
	if p.Data.Password != "" {
		var err error
		if hash, err = HashPassword(p.Data.Password); err != nil {
			return nil, err
		}
	}
	err := h.repo.UpdateUser(ctx, p.Data, hash)
	if errors.Is(err, ErrNotFound) {
		return fail("ไม่พบผู้ใช้ '" + p.Data.Username + "'"), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("อัปเดตข้อมูล '" + p.Data.Username + "' สำเร็จ"), nil
}

func (h *Handler) deleteUser(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		Username string `json:"username"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if h.protectedUser != "" && p.Username == h.protectedUser {
		return fail("ไม่สามารถลบบัญชีผู้ดูแลระบบหลักได้"), nil
	}
	if err := h.repo.DeleteUser(ctx, p.Username); err != nil {
		return nil, err
	}
	return ok("ลบผู้ใช้ '" + p.Username + "' สำเร็จ"), nil
}
