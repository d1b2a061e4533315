package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmeshcher/restopanel-system/internal/backend"
	"github.com/mmeshcher/restopanel-system/internal/model"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

func userFormFixture() validation.UserForm {
	return validation.UserForm{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	}
}

func TestStaffCreate_InheritsRestaurant(t *testing.T) {
	sb := &stubBackend{}
	st := NewStaff(sb)

	created, err := st.Create(context.Background(), managerSession(), userFormFixture())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.RestaurantID != "r1" {
		t.Fatalf("restaurant = %s, want r1", created.RestaurantID)
	}
	if created.Role != model.RoleEmployee {
		t.Fatalf("role = %s, want %s", created.Role, model.RoleEmployee)
	}
}

func TestStaffCreate_Validation(t *testing.T) {
	sb := &stubBackend{}
	st := NewStaff(sb)

	form := userFormFixture()
	form.PasswordConfirm = "other1"

	_, err := st.Create(context.Background(), managerSession(), form)
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sb.createdUsers) != 0 {
		t.Fatalf("backend called despite validation error")
	}
}

func TestStaffCreate_UnknownRole(t *testing.T) {
	st := NewStaff(&stubBackend{})

	form := userFormFixture()
	form.Role = "Admin"

	_, err := st.Create(context.Background(), managerSession(), form)
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStaffUpdate_BadEmail(t *testing.T) {
	st := NewStaff(&stubBackend{})

	_, err := st.Update(context.Background(), managerSession(), "u2", backend.UpdateUserRequest{Email: "bad"})
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStaffUpdate_Deactivate(t *testing.T) {
	sb := &stubBackend{
		users: []model.Account{{ID: "u2", IsActive: true}},
	}
	st := NewStaff(sb)

	inactive := false
	if _, err := st.Update(context.Background(), managerSession(), "u2", backend.UpdateUserRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("update error: %v", err)
	}

	req, ok := sb.updatedUsers["u2"]
	if !ok {
		t.Fatalf("backend not called")
	}
	if req.IsActive == nil || *req.IsActive {
		t.Fatalf("is_active not propagated: %+v", req)
	}
}
