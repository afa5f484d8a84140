package guard

import (
	"strings"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/domain"
)

// Route is one screen of the storefront.
type Route struct {
	Path  string
	Title string
	// Protected routes are checked with Require; public ones always render.
	Protected bool
	Require   Requirement
	// GuestOnly routes send a signed-in user to their landing page.
	GuestOnly bool
}

var (
	customer  = []domain.Role{domain.RoleUser}
	seller    = []domain.Role{domain.RoleSeller}
	admin     = []domain.Role{domain.RoleAdmin}
	everybody = []domain.Role{domain.RoleUser, domain.RoleSeller, domain.RoleAdmin}
)

// Routes is the route table. Paths with a ":id" segment match any value.
var Routes = []Route{
	{Path: "/", Title: "Shop"},
	{Path: "/login", Title: "Login", GuestOnly: true},
	{Path: "/register", Title: "Register", GuestOnly: true},
	{Path: "/forgot-password", Title: "Forgot password"},
	{Path: "/product/:id", Title: "Product"},

	{Path: "/cart", Title: "Cart", Protected: true, Require: Requirement{AllowedRoles: customer}},
	{Path: "/wishlist", Title: "Wishlist", Protected: true, Require: Requirement{AllowedRoles: customer}},
	{Path: "/orders", Title: "Orders", Protected: true, Require: Requirement{AllowedRoles: customer}},
	{Path: "/profile", Title: "Profile", Protected: true, Require: Requirement{AllowedRoles: everybody}},

	{Path: "/seller/onboarding", Title: "Onboarding", Protected: true, Require: Requirement{AllowedRoles: seller}},
	{Path: "/seller/dashboard", Title: "Dashboard", Protected: true, Require: Requirement{AllowedRoles: seller, RequireApproval: true}},
	{Path: "/seller/products", Title: "My products", Protected: true, Require: Requirement{AllowedRoles: seller, RequireApproval: true}},
	{Path: "/seller/product/add", Title: "Add product", Protected: true, Require: Requirement{AllowedRoles: seller, RequireApproval: true}},
	{Path: "/seller/products/edit/:id", Title: "Edit product", Protected: true, Require: Requirement{AllowedRoles: seller, RequireApproval: true}},

	{Path: "/admin/users", Title: "Users", Protected: true, Require: Requirement{AllowedRoles: admin}},
}

// Lookup finds the route for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if match(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

func match(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

// Resolve is Check for a path in the route table. Unknown paths redirect
// home; public routes are always allowed, except that guest-only routes send
// a signed-in user to their landing page.
func Resolve(st session.State, path string) Decision {
	r, ok := Lookup(path)
	if !ok {
		return Decision{Outcome: Redirect, Target: PathHome}
	}
	if !r.Protected {
		if r.GuestOnly && !st.Loading && st.User != nil {
			return Decision{Outcome: Redirect, Target: LandingPath(st.User.Role)}
		}
		return Decision{Outcome: Allow}
	}
	return Check(st, path, r.Require)
}

// LandingPath is where a user goes right after login.
func LandingPath(role domain.Role) string {
	switch role {
	case domain.RoleUser:
		return PathHome
	case domain.RoleSeller:
		return "/seller/dashboard"
	case domain.RoleAdmin:
		return "/admin/users"
	}
	return PathHome
}
