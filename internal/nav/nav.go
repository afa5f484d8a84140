// Package nav picks the navigation bar for the signed-in role.
package nav

import (
	"fmt"
	"strconv"

	"github.com/naveenspark/storefront/pkg/domain"
)

// Variant names one of the fixed navigation bars.
type Variant int

const (
	Public Variant = iota
	User
	Seller
	Admin
)

func (v Variant) String() string {
	switch v {
	case Public:
		return "public"
	case User:
		return "user"
	case Seller:
		return "seller"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Link is one entry of a bar. Either Path or Action is set. Key is the
// digit that selects it, assigned by position.
type Link struct {
	Key    string
	Label  string
	Path   string
	Action string
}

// Action keys that are not routes.
const (
	ActionLogout = "logout"
)

// Bar is the navigation rendered on top of every screen.
type Bar struct {
	Variant  Variant
	Greeting string
	Links    []Link
}

// For returns the bar for u. A nil user gets the public bar.
func For(u *domain.User) Bar {
	b := bar(u)
	for i := range b.Links {
		b.Links[i].Key = strconv.Itoa(i + 1)
	}
	return b
}

func bar(u *domain.User) Bar {
	if u == nil {
		return Bar{
			Variant: Public,
			Links: []Link{
				{Label: "E-Shop", Path: "/"},
				{Label: "Login", Path: "/login"},
				{Label: "Register", Path: "/register"},
			},
		}
	}

	switch u.Role {
	case domain.RoleUser:
		return Bar{
			Variant:  User,
			Greeting: "Hi, " + u.Name,
			Links: []Link{
				{Label: "Home", Path: "/"},
				{Label: "Cart", Path: "/cart"},
				{Label: "Wishlist", Path: "/wishlist"},
				{Label: "Orders", Path: "/orders"},
				{Label: "Profile", Path: "/profile"},
				{Label: "Logout", Action: ActionLogout},
			},
		}
	case domain.RoleSeller:
		return Bar{
			Variant:  Seller,
			Greeting: "Hi, " + u.Name,
			Links: []Link{
				{Label: "Seller Dashboard", Path: "/seller/dashboard"},
				{Label: "My Products", Path: "/seller/products"},
				{Label: "Add Product", Path: "/seller/product/add"},
				{Label: "Profile", Path: "/profile"},
				{Label: "Logout", Action: ActionLogout},
			},
		}
	case domain.RoleAdmin:
		return Bar{
			Variant:  Admin,
			Greeting: "Hi, " + u.Name,
			Links: []Link{
				{Label: "Users", Path: "/admin/users"},
				{Label: "Profile", Path: "/profile"},
				{Label: "Logout", Action: ActionLogout},
			},
		}
	}
	// Unknown roles never get past rehydrate or login; treat as public.
	return bar(nil)
}

// Find returns the link bound to key.
func (b Bar) Find(key string) (Link, bool) {
	for _, l := range b.Links {
		if l.Key == key {
			return l, true
		}
	}
	return Link{}, false
}
