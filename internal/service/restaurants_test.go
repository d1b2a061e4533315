package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restopanel-system/internal/session"
	"github.com/mmeshcher/restopanel-system/internal/validation"
)

func newRestaurants(sb *stubBackend, store *session.Store) *Restaurants {
	return NewRestaurants(sb, store, zap.NewNop())
}

func TestSetup(t *testing.T) {
	sb := &stubBackend{}
	store := session.NewStore()

	s := managerSession()
	s.Account.RestaurantID = ""
	store.Put(s)

	rs := newRestaurants(sb, store)

	before := time.Now()
	rest, err := rs.Setup(context.Background(), s, "La Esquina", "Efectivo, Nequi")
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}

	if rest.Name != "La Esquina" {
		t.Fatalf("name = %s, want La Esquina", rest.Name)
	}

	// Окно подписки — месяц с момента создания.
	req := sb.createdRestaurants[0]
	if req.SubscriptionStart.Before(before.Add(-time.Minute)) {
		t.Fatalf("subscription start too early: %v", req.SubscriptionStart)
	}
	wantEnd := req.SubscriptionStart.AddDate(0, 1, 0)
	if !req.SubscriptionEnd.Equal(wantEnd) {
		t.Fatalf("subscription end = %v, want %v", req.SubscriptionEnd, wantEnd)
	}

	// Ресторан привязан к пользователю и к сессии.
	if upd, ok := sb.updatedUsers["u1"]; !ok || upd.RestaurantID != rest.ID {
		t.Fatalf("user not assigned to restaurant: %+v", sb.updatedUsers)
	}
	if s.RestaurantID() != rest.ID {
		t.Fatalf("session restaurant = %s, want %s", s.RestaurantID(), rest.ID)
	}

	// Стартовое меню: категории по умолчанию и продукт-пример.
	if len(sb.createdCategories) != len(defaultCategories) {
		t.Fatalf("seeded categories = %d, want %d", len(sb.createdCategories), len(defaultCategories))
	}
	if len(sb.createdProducts) != 1 {
		t.Fatalf("seeded products = %d, want 1", len(sb.createdProducts))
	}
	if sb.createdProducts[0].CategoryID != sb.categories[0].ID {
		t.Fatalf("sample product category = %s, want %s", sb.createdProducts[0].CategoryID, sb.categories[0].ID)
	}
}

func TestSetup_EmptyName(t *testing.T) {
	rs := newRestaurants(&stubBackend{}, session.NewStore())

	_, err := rs.Setup(context.Background(), managerSession(), "   ", "")
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetup_SeedFailuresDoNotAbort(t *testing.T) {
	sb := &stubBackend{
		categoryErrByName: map[string]error{
			"Entradas": errors.New("temporary failure"),
		},
	}
	store := session.NewStore()

	s := managerSession()
	s.Account.RestaurantID = ""
	store.Put(s)

	rs := newRestaurants(sb, store)

	if _, err := rs.Setup(context.Background(), s, "La Esquina", ""); err != nil {
		t.Fatalf("setup failed because of seed error: %v", err)
	}

	if len(sb.createdCategories) != len(defaultCategories)-1 {
		t.Fatalf("seeded categories = %d, want %d", len(sb.createdCategories), len(defaultCategories)-1)
	}
	if len(sb.createdProducts) != 1 {
		t.Fatalf("sample product not created after partial seed")
	}
}

func TestSetup_UserAssignmentFailure(t *testing.T) {
	sb := &stubBackend{
		updateUserErr: errors.New("store down"),
	}
	rs := newRestaurants(sb, session.NewStore())

	s := managerSession()
	s.Account.RestaurantID = ""

	_, err := rs.Setup(context.Background(), s, "La Esquina", "")
	if err == nil {
		t.Fatalf("expected error when user assignment fails")
	}
	if len(sb.createdCategories) != 0 {
		t.Fatalf("seeding ran after failed assignment")
	}
}

func TestGet_NoRestaurant(t *testing.T) {
	rs := newRestaurants(&stubBackend{}, session.NewStore())

	s := managerSession()
	s.Account.RestaurantID = ""

	_, err := rs.Get(context.Background(), s)
	if !errors.Is(err, ErrNoRestaurant) {
		t.Fatalf("expected ErrNoRestaurant, got %v", err)
	}
}
