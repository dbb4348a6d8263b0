package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/http/middleware"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *stubUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) SetApproved(ctx context.Context, id string, approved bool) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user.IsApproved = approved
	return user, nil
}

func (r *stubUserRepo) SetBanned(ctx context.Context, id string, banned bool) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user.IsBanned = banned
	return user, nil
}

type stubClickEventRepo struct {
	events []model.ClickEvent
}

func (r *stubClickEventRepo) Create(ctx context.Context, event *model.ClickEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *stubClickEventRepo) ListByCode(ctx context.Context, shortCode string, limit int) ([]model.ClickEvent, error) {
	var result []model.ClickEvent
	for _, e := range r.events {
		if e.ShortCode == shortCode {
			result = append(result, e)
		}
	}
	return result, nil
}

func newAdminTestApp(repo repository.UserRepository, clicks repository.ClickEventRepository, key string) *fiber.App {
	app := fiber.New()
	admin := app.Group("/admin", middleware.AdminKey(key))
	NewAdminHandler(AdminDeps{Users: repo, Clicks: clicks}).Register(admin)
	return app
}

func TestAdminHandler_KeyRequired(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}
	app := newAdminTestApp(repo, &stubClickEventRepo{}, "secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/users/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a key, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/admin/users/", nil)
	req.Header.Set(middleware.AdminKeyHeader, "wrong")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong key, got %d", resp.StatusCode)
	}
}

func TestAdminHandler_DisabledWithoutKey(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}
	app := newAdminTestApp(repo, &stubClickEventRepo{}, "")

	req := httptest.NewRequest("GET", "/admin/users/", nil)
	req.Header.Set(middleware.AdminKeyHeader, "anything")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 when no key is configured, got %d", resp.StatusCode)
	}
}

func TestAdminHandler_Moderation(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Email: "user@example.com"},
	}}
	app := newAdminTestApp(repo, &stubClickEventRepo{}, "secret")

	do := func(target, body string) int {
		t.Helper()
		r := httptest.NewRequest("POST", target, strings.NewReader(body))
		r.Header.Set(middleware.AdminKeyHeader, "secret")
		if body != "" {
			r.Header.Set("Content-Type", "application/json")
		}
		resp, err := app.Test(r)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}

	if status := do("/admin/users/user-1/approve", ""); status != fiber.StatusOK {
		t.Fatalf("approve returned %d", status)
	}
	if !repo.users["user-1"].IsApproved {
		t.Fatal("expected user to be approved")
	}

	if status := do("/admin/users/user-1/approve", `{"value":false}`); status != fiber.StatusOK {
		t.Fatalf("revoke returned %d", status)
	}
	if repo.users["user-1"].IsApproved {
		t.Fatal("expected approval to be revoked")
	}

	if status := do("/admin/users/user-1/ban", ""); status != fiber.StatusOK {
		t.Fatalf("ban returned %d", status)
	}
	if !repo.users["user-1"].IsBanned {
		t.Fatal("expected user to be banned")
	}

	if status := do("/admin/users/missing/ban", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for an unknown user, got %d", status)
	}
}

func TestAdminHandler_LinkClicks(t *testing.T) {
	clicks := &stubClickEventRepo{events: []model.ClickEvent{
		{ID: "ev-1", ShortCode: "abc123", IP: "203.0.113.9"},
		{ID: "ev-2", ShortCode: "other", IP: "203.0.113.9"},
	}}
	app := newAdminTestApp(&stubUserRepo{users: map[string]*model.User{}}, clicks, "secret")

	req := httptest.NewRequest("GET", "/admin/links/abc123/clicks", nil)
	req.Header.Set(middleware.AdminKeyHeader, "secret")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Clicks []model.ClickEvent `json:"clicks"`
		Count  int                `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 1 || len(payload.Clicks) != 1 || payload.Clicks[0].ID != "ev-1" {
		t.Fatalf("unexpected click history: %+v", payload)
	}
}
