package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

func createTestUser() *domain.User {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.User{
		ID:           7,
		Name:         "Jo",
		Email:        "jo@example.com",
		PasswordHash: "$2a$10$secret-hash",
		Role:         domain.UserRoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestToUserView_Nil(t *testing.T) {
	if v := ToUserView(nil); v != nil {
		t.Fatalf("expected nil view, got %+v", v)
	}
}

func TestToUserView_Fields(t *testing.T) {
	u := createTestUser()
	v := ToUserView(u)

	if v.ID != u.ID || v.Name != u.Name || v.Email != u.Email || v.Role != u.Role {
		t.Fatalf("unexpected view: %+v", v)
	}
	if !v.CreatedAt.Equal(u.CreatedAt) || !v.UpdatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps not copied: %+v", v)
	}
}

func TestToUserView_NeverLeaksPassword(t *testing.T) {
	data, err := json.Marshal(ToUserView(createTestUser()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	body := strings.ToLower(string(data))
	for _, banned := range []string{"password", "secret-hash"} {
		if strings.Contains(body, banned) {
			t.Errorf("view JSON leaks %q: %s", banned, data)
		}
	}

	var keys map[string]any
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, k := range []string{"id", "name", "email", "role", "createdAt", "updatedAt"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	if len(keys) != 6 {
		t.Errorf("expected exactly 6 keys, got %d: %v", len(keys), keys)
	}
}

func TestToUserViews(t *testing.T) {
	testCases := []struct {
		name  string
		input []*domain.User
		want  int
	}{
		{"nil slice", nil, 0},
		{"empty slice", []*domain.User{}, 0},
		{"nil element skipped", []*domain.User{createTestUser(), nil}, 1},
		{"two users", []*domain.User{createTestUser(), createTestUser()}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToUserViews(tc.input)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d views, got %d", tc.want, len(got))
			}
		})
	}
}

func TestToUserViews_EmptyMarshalsAsArray(t *testing.T) {
	data, _ := json.Marshal(ToUserViews(nil))
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestToUserPage(t *testing.T) {
	page := domain.Page[*domain.User]{
		Total: 41,
		Page:  3,
		Limit: 20,
		Data:  []*domain.User{createTestUser()},
	}

	got := ToUserPage(page)
	if got.Total != 41 || got.Page != 3 || got.Limit != 20 {
		t.Fatalf("pagination metadata not passed through: %+v", got)
	}
	if len(got.Data) != 1 || got.Data[0].ID != 7 {
		t.Fatalf("unexpected data: %+v", got.Data)
	}

	empty := ToUserPage(domain.Page[*domain.User]{Total: 0, Page: 1, Limit: 20})
	if empty.Data == nil || len(empty.Data) != 0 {
		t.Fatalf("expected empty data slice, got %#v", empty.Data)
	}
}
