package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Walnut Desk", Price: 420, Stock: 3, Category: &domain.Category{ID: 1, Name: "Furniture"}},
		{ID: 2, Name: "Brass Lamp", Price: 89.5, Stock: 0, Category: &domain.Category{ID: 2, Name: "Lighting"}},
		{ID: 3, Name: "Desk Mat", Price: 25, Stock: 40},
	}
}

func withUser(u *domain.User) sessionMsg {
	return sessionMsg{state: session.State{User: u, Phase: session.PhaseAuthenticated}}
}

func TestCatalogRendersProducts(t *testing.T) {
	m := newCatalogModel(nil, "http://localhost:5173")
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})

	v := m.View()
	for _, want := range []string{"Walnut Desk", "$420.00", "Furniture", "sold out"} {
		if !strings.Contains(v, want) {
			t.Errorf("catalog view missing %q:\n%s", want, v)
		}
	}
}

func TestCatalogLoadError(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(productsLoadedMsg{err: errors.New("connection refused")})
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("expected error, got:\n%s", m.View())
	}
}

func TestCatalogSearch(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})

	m, _ = m.Update(key("/"))
	if !m.editing {
		t.Fatal("/ should start search")
	}
	for _, r := range "desk" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	vis := m.visible()
	if len(vis) != 2 {
		t.Fatalf("visible = %d, want 2", len(vis))
	}
	if strings.Contains(m.View(), "Brass Lamp") {
		t.Error("filtered product still shown")
	}

	m, _ = m.Update(key("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visible()) != 3 {
		t.Error("esc should clear the query")
	}
}

func TestCatalogAddToCartNeedsLogin(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})

	_, cmd := m.Update(key("a"))
	if cmd == nil {
		t.Fatal("expected redirect command")
	}
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/login" {
		t.Errorf("got %#v, want navigate to /login", nm)
	}
}

func TestCatalogAddToCartBlockedForSeller(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(withUser(seller(domain.StatusApproved)))
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})

	m, cmd := m.Update(key("a"))
	if cmd != nil {
		t.Error("seller should not add to cart")
	}
	if !strings.Contains(m.status, "only customer") {
		t.Errorf("status = %q", m.status)
	}
}

func TestCatalogOutOfStock(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(withUser(customer()))
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})
	m, _ = m.Update(key("j"))

	m, cmd := m.Update(key("a"))
	if cmd != nil || m.status != "out of stock" {
		t.Errorf("cmd=%v status=%q", cmd != nil, m.status)
	}
}

func TestCatalogDetailQuantity(t *testing.T) {
	m := newCatalogModel(nil, "")
	p := sampleProducts()[0]
	m, _ = m.open(p.ID)
	m, _ = m.Update(productLoadedMsg{product: &p})
	if m.detail == nil {
		t.Fatal("detail not shown")
	}
	for i := 0; i < 5; i++ {
		m, _ = m.Update(key("+"))
	}
	if m.quantity != 3 {
		t.Errorf("quantity = %d, want capped at stock 3", m.quantity)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail != nil {
		t.Error("esc should close detail")
	}
}

func TestCatalogWishlistToggle(t *testing.T) {
	m := newCatalogModel(nil, "")
	m, _ = m.Update(withUser(customer()))
	m, _ = m.Update(productsLoadedMsg{products: sampleProducts()})

	m, _ = m.Update(wishlistToggledMsg{id: 1, added: true})
	if !m.wished[1] || !strings.Contains(m.View(), "♥") {
		t.Error("product 1 should be wished")
	}
	m, _ = m.Update(wishlistToggledMsg{id: 1, added: false})
	if m.wished[1] {
		t.Error("product 1 should be removed")
	}
}

func TestCartTotalsAndEmptyOrder(t *testing.T) {
	m := newCartModel(nil)
	m, _ = m.Update(cartLoadedMsg{cart: &domain.Cart{}})
	m, cmd := m.Update(key("p"))
	if cmd != nil || m.status != "your cart is empty" {
		t.Errorf("empty cart should not order: status=%q", m.status)
	}

	cart := &domain.Cart{
		Items:       []domain.CartItem{{ID: 5, Product: sampleProducts()[0], Quantity: 2}},
		TotalAmount: 840,
	}
	m, _ = m.Update(cartLoadedMsg{cart: cart})
	v := m.View()
	if !strings.Contains(v, "Walnut Desk") || !strings.Contains(v, "$840.00") {
		t.Errorf("cart view:\n%s", v)
	}
}

func TestCartClearNeedsConfirm(t *testing.T) {
	m := newCartModel(nil)
	m, _ = m.Update(cartLoadedMsg{cart: &domain.Cart{Items: []domain.CartItem{{ID: 1, Quantity: 1}}}})
	m, _ = m.Update(key("x"))
	if !m.confirming {
		t.Fatal("x should ask for confirmation")
	}
	m, cmd := m.Update(key("n"))
	if cmd != nil || m.confirming {
		t.Error("n should cancel")
	}
}

func TestCartOrderPlacedNavigates(t *testing.T) {
	m := newCartModel(nil)
	_, cmd := m.Update(orderPlacedMsg{order: &domain.Order{ID: 77}})
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/orders" || !strings.Contains(nm.flash, "#77") {
		t.Errorf("got %#v", nm)
	}
}

func TestOrdersCancelOnlyPlaced(t *testing.T) {
	m := newOrdersModel(nil)
	m, _ = m.Update(ordersLoadedMsg{orders: []domain.Order{
		{ID: 1, Status: domain.OrderShipped, CreatedAt: "2024-03-01T10:00:00"},
	}})
	m, cmd := m.Update(key("x"))
	if cmd != nil || !strings.Contains(m.status, "only placed") {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "2024-03-01") {
		t.Errorf("expected date in view:\n%s", m.View())
	}
}

func TestOnboardingCopyByStatus(t *testing.T) {
	tests := []struct {
		user *domain.User
		want []string
	}{
		{seller(domain.StatusPending), []string{"Pending Review", "being reviewed"}},
		{seller(domain.StatusApproved), []string{"Approved", "continue to /seller/dashboard"}},
		{&domain.User{ID: 3, Name: "Sam", Role: domain.RoleSeller, AccountStatus: domain.StatusRejected,
			RejectionCount: 2, LastRejectionReason: "Missing tax id"},
			[]string{"Rejected", "Missing tax id", "request approval", "2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.user.AccountStatus), func(t *testing.T) {
			m := newOnboardingModel(nil, nil)
			m, _ = m.Update(withUser(tt.user))
			v := m.View()
			for _, w := range tt.want {
				if !strings.Contains(v, w) {
					t.Errorf("missing %q in:\n%s", w, v)
				}
			}
		})
	}
}

func TestOnboardingRequestOnlyWhenRejected(t *testing.T) {
	m := newOnboardingModel(nil, nil)
	m, _ = m.Update(withUser(seller(domain.StatusPending)))
	if _, cmd := m.Update(key("a")); cmd != nil {
		t.Error("pending seller cannot request again")
	}

	rejected := seller(domain.StatusRejected)
	m, _ = m.Update(withUser(rejected))
	m, cmd := m.Update(key("a"))
	if cmd == nil || !m.submitting {
		t.Error("rejected seller should be able to request approval")
	}

	m, _ = m.Update(approvalRequestedMsg{err: &client.HTTPError{StatusCode: 409, Message: "Request already pending"}})
	if !strings.Contains(m.View(), "Request already pending") {
		t.Errorf("expected server message:\n%s", m.View())
	}
}

func TestOnboardingReturnsToOrigin(t *testing.T) {
	m := newOnboardingModel(nil, nil)
	m.from = "/seller/products"
	m, _ = m.Update(withUser(seller(domain.StatusApproved)))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/seller/products" {
		t.Errorf("got %#v", nm)
	}
}

func TestSellerDashboardSummary(t *testing.T) {
	m := newSellerProductsModel(nil, true)
	m, _ = m.Update(withUser(seller(domain.StatusApproved)))
	m, _ = m.Update(sellerProductsMsg{products: sampleProducts()})
	v := m.View()
	for _, want := range []string{"Welcome back, Sam", "43", "low stock"} {
		if !strings.Contains(v, want) {
			t.Errorf("missing %q in:\n%s", want, v)
		}
	}
}

func TestProductFormValidation(t *testing.T) {
	tests := []struct {
		name, price, stock, want string
	}{
		{"", "10", "1", "name is required"},
		{"Lamp", "free", "1", "price must be"},
		{"Lamp", "-2", "1", "price must be"},
		{"Lamp", "10", "1.5", "stock must be"},
		{"Lamp", "10", "4", ""},
	}
	for _, tt := range tests {
		m := newProductFormModel(nil)
		m.form.set(addName, tt.name)
		m.form.set(addPrice, tt.price)
		m.form.set(addStock, tt.stock)
		req, msg := m.request()
		if !strings.Contains(msg, tt.want) || (tt.want == "" && msg != "") {
			t.Errorf("%+v: msg = %q", tt, msg)
		}
		if tt.want == "" && (req.Price != 10 || req.Stock != 4) {
			t.Errorf("parsed %+v", req)
		}
	}
}

func TestProductFormCyclesCategories(t *testing.T) {
	m := newProductFormModel(nil)
	m, _ = m.Update(categoriesLoadedMsg{categories: []domain.Category{{ID: 1, Name: "Books"}, {ID: 2, Name: "Games"}}})
	m.form.focus = addCategory
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.form.fields[addCategory].value != "Games" {
		t.Errorf("category = %q", m.form.fields[addCategory].value)
	}
	m, _ = m.Update(key("z"))
	if m.form.fields[addCategory].value != "Games" {
		t.Error("typing should not edit the category")
	}
}

func TestRegisterRoleToggle(t *testing.T) {
	m := newRegisterModel(nil)
	m.form.focus = regRole
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if registerRoles[m.role] != domain.RoleSeller || m.form.fields[regRole].value != "SELLER" {
		t.Errorf("role = %v", registerRoles[m.role])
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if registerRoles[m.role] != domain.RoleUser {
		t.Error("role should wrap to USER")
	}
}

func TestRegisterSuccessGoesToLogin(t *testing.T) {
	m := newRegisterModel(nil)
	_, cmd := m.Update(registerDoneMsg{res: session.AuthResult{OK: true}})
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/login" {
		t.Errorf("got %#v", nm)
	}
}

func TestLoginFormSubmitsOnLastField(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.form.focus != loginPassword || m.form.submitted {
		t.Fatal("enter on email should move to password")
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.form.submitted {
		t.Error("enter on password should submit")
	}
	if !strings.Contains(m.View(), "working") {
		t.Error("expected progress indicator")
	}
}

func TestLoginFailureClearsPassword(t *testing.T) {
	m := newLoginModel(nil)
	m.form.set(loginPassword, "secret")
	m, _ = m.Update(loginDoneMsg{res: session.AuthResult{Error: "Login failed"}})
	if m.form.fields[loginPassword].value != "" {
		t.Error("password should be cleared")
	}
	if strings.Contains(m.View(), "secret") || !strings.Contains(m.View(), "Login failed") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestForgotPasswordStages(t *testing.T) {
	m := newForgotModel(nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !strings.Contains(m.View(), "email is required") {
		t.Error("empty email should not submit")
	}
	m, _ = m.Update(forgotSentMsg{})
	if m.stage != 1 || !strings.Contains(m.View(), "Reset password") {
		t.Errorf("stage = %d", m.stage)
	}
	_, cmd = m.Update(resetDoneMsg{})
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/login" {
		t.Errorf("got %#v", nm)
	}
}

func TestUsersRejectNeedsReason(t *testing.T) {
	m := newUsersModel(nil)
	m, _ = m.Update(usersLoadedMsg{users: []domain.User{
		{ID: 3, Name: "Sam", Role: domain.RoleSeller, AccountStatus: domain.StatusPending, ApprovalRequested: true},
	}})
	m, _ = m.Update(key("x"))
	if !m.rejecting {
		t.Fatal("x should open the reason prompt")
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.status != "a reason is required" {
		t.Errorf("status = %q", m.status)
	}
	m, _ = m.Update(key("incomplete documents"))
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.rejecting {
		t.Error("reason should submit")
	}
}

func TestUsersPendingFilterAndNormalize(t *testing.T) {
	m := newUsersModel(nil)
	m, _ = m.Update(usersLoadedMsg{users: []domain.User{
		{ID: 1, Name: "Ann", Role: domain.RoleUser},
		{ID: 3, Name: "Sam", Role: domain.RoleSeller, AccountStatus: domain.StatusPending},
		{ID: 4, Name: "Old", Role: domain.RoleSeller},
	}})
	if m.users[2].AccountStatus != domain.StatusApproved {
		t.Error("missing status should normalize to APPROVED")
	}
	m, _ = m.Update(key("f"))
	vis := m.visible()
	if len(vis) != 1 || vis[0].Name != "Sam" {
		t.Errorf("visible = %+v", vis)
	}
	if _, cmd := m.Update(key("a")); cmd == nil {
		t.Error("pending seller should be approvable")
	}
}

func TestUsersDetailPanel(t *testing.T) {
	m := newUsersModel(nil)
	m, _ = m.Update(usersLoadedMsg{users: []domain.User{
		{ID: 1, Name: "Ann", Role: domain.RoleUser},
		{ID: 3, Name: "Sam", Role: domain.RoleSeller, AccountStatus: domain.StatusRejected},
	}})
	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.detailID != 3 {
		t.Fatalf("enter should load details for Sam, detailID=%d", m.detailID)
	}
	if !strings.Contains(m.View(), "loading details") {
		t.Errorf("expected loading placeholder:\n%s", m.View())
	}

	// A late response for another user is ignored.
	m, _ = m.Update(userDetailsMsg{id: 1, details: &domain.UserDetails{User: domain.User{ID: 1, Name: "Ann"}}})
	if m.details != nil {
		t.Fatal("stale details applied")
	}

	m, _ = m.Update(userDetailsMsg{id: 3, details: &domain.UserDetails{
		User: domain.User{ID: 3, Name: "Sam", Email: "sam@shop.io", Role: domain.RoleSeller,
			AccountStatus: domain.StatusRejected, LastRejectionReason: "blurry license"},
		ProductCount:   4,
		RejectionCount: 2,
	}})
	v := m.View()
	for _, want := range []string{"Sam", "sam@shop.io", "products listed", "4", "rejections", "2", "REJECTED", "blurry license"} {
		if !strings.Contains(v, want) {
			t.Errorf("detail view missing %q:\n%s", want, v)
		}
	}

	// Keys other than close are swallowed while the panel is open.
	if _, cmd := m.Update(key("a")); cmd != nil {
		t.Error("approve should not fire from the detail panel")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detailID != 0 || !strings.Contains(m.View(), "Ann") {
		t.Errorf("esc should return to the list:\n%s", m.View())
	}
}

func TestUsersDetailError(t *testing.T) {
	m := newUsersModel(nil)
	m, _ = m.Update(usersLoadedMsg{users: []domain.User{{ID: 1, Name: "Ann", Role: domain.RoleUser}}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(userDetailsMsg{id: 1, err: errors.New("boom")})
	if !strings.Contains(m.View(), "Unable to load user details") {
		t.Errorf("expected fallback error:\n%s", m.View())
	}
}

func TestProductFormEditPrefill(t *testing.T) {
	m := newProductFormModel(nil)
	m, cmd := m.startEdit(2)
	if cmd == nil || m.editID != 2 {
		t.Fatal("startEdit should load the product")
	}
	m, _ = m.Update(productToEditMsg{product: &domain.Product{
		ID: 2, Name: "Brass Lamp", Description: "warm light", Price: 89.5, Stock: 6,
		Category: &domain.Category{ID: 7, Name: "Lighting"},
	}})
	// Categories can arrive after the product; the product's category still wins.
	m, _ = m.Update(categoriesLoadedMsg{categories: []domain.Category{{ID: 1, Name: "Books"}, {ID: 7, Name: "Lighting"}}})

	if got := m.form.fields[addPrice].value; got != "89.5" {
		t.Errorf("price = %q, want 89.5", got)
	}
	if got := m.form.fields[addCategory].value; got != "Lighting" || m.category != 1 {
		t.Errorf("category = %q (%d), want Lighting", got, m.category)
	}
	req, msg := m.request()
	if msg != "" || req.Name != "Brass Lamp" || req.Stock != 6 {
		t.Errorf("request = %+v, %q", req, msg)
	}
	if !strings.Contains(m.View(), "Edit product") {
		t.Error("edit title missing")
	}

	m.form.focus = addCategory
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.form.submitted {
		t.Fatal("enter on the last field should submit")
	}

	m, cmd = m.Update(productSavedMsg{product: &domain.Product{ID: 2, Name: "Brass Lamp"}, edited: true})
	nm, ok := cmd().(navigateMsg)
	if !ok || nm.path != "/seller/products" || nm.flash != "Updated Brass Lamp." {
		t.Errorf("got %#v", nm)
	}
	if m.editID != 0 {
		t.Error("saving should leave edit mode")
	}
}

func TestProfileEdit(t *testing.T) {
	m := newProfileModel(nil, nil)
	m, _ = m.Update(withUser(customer()))
	if !strings.Contains(m.View(), "ann@shop.io") {
		t.Fatalf("profile view:\n%s", m.View())
	}
	m, _ = m.Update(key("e"))
	if !m.editing || m.form.fields[profName].value != "Ann" {
		t.Fatal("e should open the form prefilled")
	}
	m.form.set(profPassword, "abc")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || !strings.Contains(m.View(), "at least 6") {
		t.Errorf("short password should fail:\n%s", m.View())
	}
	m, _ = m.Update(profileSavedMsg{})
	if m.editing || m.status != "profile saved" {
		t.Errorf("editing=%v status=%q", m.editing, m.status)
	}
}
