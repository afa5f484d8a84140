package nav

import (
	"testing"

	"github.com/naveenspark/storefront/pkg/domain"
)

func labels(b Bar) []string {
	out := make([]string, len(b.Links))
	for i, l := range b.Links {
		out[i] = l.Label
	}
	return out
}

func TestForVariants(t *testing.T) {
	tests := []struct {
		name   string
		user   *domain.User
		want   Variant
		labels []string
	}{
		{"anonymous", nil, Public, []string{"E-Shop", "Login", "Register"}},
		{"user", &domain.User{Name: "Ann", Role: domain.RoleUser}, User,
			[]string{"Home", "Cart", "Wishlist", "Orders", "Profile", "Logout"}},
		{"seller", &domain.User{Name: "Sam", Role: domain.RoleSeller, AccountStatus: domain.StatusPending}, Seller,
			[]string{"Seller Dashboard", "My Products", "Add Product", "Profile", "Logout"}},
		{"admin", &domain.User{Name: "Ada", Role: domain.RoleAdmin}, Admin,
			[]string{"Users", "Profile", "Logout"}},
		{"unknown role", &domain.User{Role: "GUEST"}, Public, []string{"E-Shop", "Login", "Register"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := For(tt.user)
			if b.Variant != tt.want {
				t.Fatalf("Variant = %v, want %v", b.Variant, tt.want)
			}
			got := labels(b)
			if len(got) != len(tt.labels) {
				t.Fatalf("labels = %v, want %v", got, tt.labels)
			}
			for i := range got {
				if got[i] != tt.labels[i] {
					t.Errorf("labels[%d] = %q, want %q", i, got[i], tt.labels[i])
				}
			}
		})
	}
}

func TestGreeting(t *testing.T) {
	b := For(&domain.User{Name: "Ann", Role: domain.RoleUser})
	if b.Greeting != "Hi, Ann" {
		t.Errorf("Greeting = %q", b.Greeting)
	}
	if For(nil).Greeting != "" {
		t.Error("public bar should not greet")
	}
}

func TestKeysAreDigits(t *testing.T) {
	b := For(&domain.User{Role: domain.RoleUser})
	l, ok := b.Find("2")
	if !ok || l.Path != "/cart" {
		t.Errorf("Find(2) = %+v, %v", l, ok)
	}
	if _, ok := b.Find("9"); ok {
		t.Error("Find(9) should miss")
	}
}

func TestLogoutIsLastForSignedIn(t *testing.T) {
	for _, role := range domain.Roles {
		b := For(&domain.User{Role: role})
		last := b.Links[len(b.Links)-1]
		if last.Action != ActionLogout || last.Path != "" {
			t.Errorf("%s: last link = %+v", role, last)
		}
	}
	for _, l := range For(nil).Links {
		if l.Action != "" {
			t.Errorf("public bar has action %+v", l)
		}
	}
}
