package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

const msgBadCredentials = "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง"

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// newToken returns 32 hex characters from a random UUID.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (h *Handler) login(ctx context.Context, raw json.RawMessage) (reply, error) {
	var p struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	u, hash, err := h.repo.Credential(ctx, p.Username)
	if errors.Is(err, ErrNotFound) {
		return fail(msgBadCredentials), nil
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(p.Password)) != nil {
		return fail(msgBadCredentials), nil
	}
	token := newToken()
	if err := h.repo.CreateSession(ctx, token, u.Username); err != nil {
		return nil, err
	}
	return ok("").with("token", token).with("user", u.WithoutPassword()), nil
}

func (h *Handler) logout(ctx context.Context, _ *domain.User, raw json.RawMessage) (reply, error) {
	var p struct {
		Token string `json:"token"`
	}
	if err := decodePayload(raw, &p); err != nil {
		return fail(msgBadPayload), nil
	}
	if p.Token != "" {
		if err := h.repo.DeleteSession(ctx, p.Token); err != nil {
			return nil, err
		}
	}
	return ok("ออกจากระบบสำเร็จ"), nil
}

// SeedAdmin creates the bootstrap admin account when it does not exist.
func SeedAdmin(ctx context.Context, repo Repository, username, password, department string) (bool, error) {
	if _, _, err := repo.Credential(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	u := domain.User{
		Username:   username,
		FirstName:  username,
		Position:   "ผู้ดูแลระบบ",
		Department: department,
		Role:       domain.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, u, hash); err != nil && !errors.Is(err, ErrExists) {
		return false, err
	}
	return true, nil
}
