package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/storefront/internal/browser"
	"github.com/naveenspark/storefront/internal/guard"
	"github.com/naveenspark/storefront/internal/nav"
	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
)

type view int

const (
	viewCatalog view = iota
	viewLogin
	viewRegister
	viewForgot
	viewCart
	viewWishlist
	viewOrders
	viewProfile
	viewOnboarding
	viewDashboard
	viewSellerProducts
	viewProductForm
	viewUsers
)

// routeViews maps guard route patterns to screens.
var routeViews = map[string]view{
	"/":                         viewCatalog,
	"/product/:id":              viewCatalog,
	"/login":                    viewLogin,
	"/register":                 viewRegister,
	"/forgot-password":          viewForgot,
	"/cart":                     viewCart,
	"/wishlist":                 viewWishlist,
	"/orders":                   viewOrders,
	"/profile":                  viewProfile,
	"/seller/onboarding":        viewOnboarding,
	"/seller/dashboard":         viewDashboard,
	"/seller/products":          viewSellerProducts,
	"/seller/product/add":       viewProductForm,
	"/seller/products/edit/:id": viewProductForm,
	"/admin/users":              viewUsers,
}

// sessionMsg carries a fresh session snapshot. err is set when a refresh
// failed; the snapshot is still the current one.
type sessionMsg struct {
	state session.State
	err   error
}

// navigateMsg asks the App to move to path, showing flash afterwards.
type navigateMsg struct {
	path  string
	flash string
}

func navigate(path, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path, flash: flash} }
}

func rehydrate(sc *session.Controller) tea.Cmd {
	return func() tea.Msg { return sessionMsg{state: sc.Rehydrate()} }
}

func refreshSession(sc *session.Controller) tea.Cmd {
	return func() tea.Msg {
		_, err := sc.RefreshUserFromServer(context.Background())
		return sessionMsg{state: sc.State(), err: err}
	}
}

func syncSession(sc *session.Controller) tea.Cmd {
	return func() tea.Msg { return sessionMsg{state: sc.State()} }
}

// App is the root Bubbletea model. It owns navigation: every move goes
// through the route guard, and the guard is consulted again whenever the
// session changes.
type App struct {
	client  *client.Client
	session *session.Controller
	webURL  string
	version string

	state   session.State
	path    string
	view    view
	pending bool // guard is waiting for the session to load
	flash   string

	catalog        catalogModel
	login          loginModel
	register       registerModel
	forgot         forgotModel
	cart           cartModel
	wishlist       wishlistModel
	orders         ordersModel
	profile        profileModel
	onboarding     onboardingModel
	dashboard      sellerProductsModel
	sellerProducts sellerProductsModel
	productForm    productFormModel
	users          usersModel

	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int
}

// NewApp creates the TUI. The session is rehydrated from Init.
func NewApp(c *client.Client, sc *session.Controller, webURL, version string) App {
	return App{
		client:         c,
		session:        sc,
		webURL:         strings.TrimRight(webURL, "/"),
		version:        version,
		state:          session.State{Loading: true},
		path:           guard.PathHome,
		view:           viewCatalog,
		catalog:        newCatalogModel(c, webURL),
		login:          newLoginModel(sc),
		register:       newRegisterModel(sc),
		forgot:         newForgotModel(c),
		cart:           newCartModel(c),
		wishlist:       newWishlistModel(c),
		orders:         newOrdersModel(c),
		profile:        newProfileModel(c, sc),
		onboarding:     newOnboardingModel(c, sc),
		dashboard:      newSellerProductsModel(c, true),
		sellerProducts: newSellerProductsModel(c, false),
		productForm:    newProductFormModel(c),
		users:          newUsersModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(rehydrate(a.session), a.catalog.load(), shimmerTickCmd())
}

// setState installs a session snapshot and hands it to the screens that
// render the user.
func (a App) setState(st session.State) (App, tea.Cmd) {
	a.state = st
	msg := sessionMsg{state: st}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.catalog, cmd = a.catalog.Update(msg)
	cmds = append(cmds, cmd)
	a.profile, _ = a.profile.Update(msg)
	a.onboarding, _ = a.onboarding.Update(msg)
	a.dashboard, _ = a.dashboard.Update(msg)
	a.sellerProducts, _ = a.sellerProducts.Update(msg)
	return a, tea.Batch(cmds...)
}

// navigate moves to path through the guard, following redirects.
func (a App) navigate(path string) (App, tea.Cmd) {
	for hops := 0; hops < 4; hops++ {
		d := guard.Resolve(a.state, path)
		switch d.Outcome {
		case guard.Loading:
			a.path = path
			a.pending = true
			return a, nil
		case guard.Redirect:
			if d.Target == guard.PathOnboarding {
				a.onboarding.from = d.From
			}
			path = d.Target
		case guard.Allow:
			a.pending = false
			return a.enter(path)
		}
	}
	a.pending = false
	return a.enter(guard.PathHome)
}

// enter shows the screen for an allowed path and starts its load.
func (a App) enter(path string) (App, tea.Cmd) {
	route, _ := guard.Lookup(path)
	a.path = path
	a.view = routeViews[route.Path]

	switch a.view {
	case viewCatalog:
		if id, ok := pathID(route, path); ok {
			var cmd tea.Cmd
			a.catalog, cmd = a.catalog.open(id)
			return a, tea.Batch(cmd, a.catalog.Init())
		}
		a.catalog.detail = nil
		return a, a.catalog.Init()
	case viewCart:
		a.cart.loading = true
		return a, a.cart.Init()
	case viewWishlist:
		a.wishlist.loading = true
		return a, a.wishlist.Init()
	case viewOrders:
		a.orders.loading = true
		return a, a.orders.Init()
	case viewProfile:
		return a, a.profile.Init()
	case viewOnboarding:
		return a, a.onboarding.Init()
	case viewDashboard:
		a.dashboard.loading = true
		return a, a.dashboard.Init()
	case viewSellerProducts:
		a.sellerProducts.loading = true
		return a, a.sellerProducts.Init()
	case viewProductForm:
		var cmd tea.Cmd
		if id, ok := pathID(route, path); ok {
			a.productForm, cmd = a.productForm.startEdit(id)
		} else {
			a.productForm, cmd = a.productForm.startAdd()
		}
		return a, cmd
	case viewUsers:
		a.users.loading = true
		return a, a.users.Init()
	}
	return a, nil
}

// pathID parses the trailing ":id" segment of a parameterized route.
func pathID(route guard.Route, path string) (int64, bool) {
	if !strings.HasSuffix(route.Path, "/:id") {
		return 0, false
	}
	id, err := strconv.ParseInt(path[strings.LastIndex(path, "/")+1:], 10, 64)
	return id, err == nil
}

// reguard re-runs the guard for the current path after a session change.
func (a App) reguard() (App, tea.Cmd) {
	if a.pending || guard.Resolve(a.state, a.path).Outcome != guard.Allow {
		return a.navigate(a.path)
	}
	return a, nil
}

func (a App) logout() (App, tea.Cmd) {
	a.session.Logout()
	a, cmd := a.setState(a.session.State())
	a.flash = "Logged out."
	a, navCmd := a.navigate(guard.PathLogin)
	return a, tea.Batch(cmd, navCmd)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrSuperseded) {
			a.flash = client.MessageOf(msg.err, "could not refresh your account")
		}
		a, cmd := a.setState(msg.state)
		a, navCmd := a.reguard()
		return a, tea.Batch(cmd, navCmd)

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		if !msg.res.OK || msg.res.User == nil {
			return a, nil
		}
		a, cmd := a.setState(msg.state)
		a.flash = "Welcome back, " + msg.res.User.Name + "."
		a, navCmd := a.navigate(guard.LandingPath(msg.res.User.Role))
		return a, tea.Batch(cmd, navCmd)

	case navigateMsg:
		a.flash = msg.flash
		return a.navigate(msg.path)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			return a.updateHelp(msg)
		}
		if a.pending {
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a, nil
		}
		a.flash = ""

		if !a.isEditing() {
			key := msg.String()
			switch key {
			case "q":
				return a, tea.Quit
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			}
			if l, ok := nav.For(a.state.User).Find(key); ok {
				if l.Action == nav.ActionLogout {
					return a.logout()
				}
				return a.navigate(l.Path)
			}
		} else if msg.String() == "esc" {
			switch a.view {
			case viewLogin, viewRegister, viewForgot:
				return a.navigate(guard.PathHome)
			case viewProductForm:
				return a.navigate("/seller/products")
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewCatalog:
		a.catalog, cmd = a.catalog.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewForgot:
		a.forgot, cmd = a.forgot.Update(msg)
	case viewCart:
		a.cart, cmd = a.cart.Update(msg)
	case viewWishlist:
		a.wishlist, cmd = a.wishlist.Update(msg)
	case viewOrders:
		a.orders, cmd = a.orders.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewOnboarding:
		a.onboarding, cmd = a.onboarding.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewSellerProducts:
		a.sellerProducts, cmd = a.sellerProducts.Update(msg)
	case viewProductForm:
		a.productForm, cmd = a.productForm.Update(msg)
	case viewUsers:
		a.users, cmd = a.users.Update(msg)
	}
	return a, cmd
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := helpItems(a.webURL)
	switch msg.String() {
	case "?", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.helpCursor = moveCursor(a.helpCursor, 1, len(items))
	case "k", "up":
		a.helpCursor = moveCursor(a.helpCursor, -1, len(items))
	case "enter":
		browser.Open(items[a.helpCursor].url) //nolint:errcheck // best-effort browser open
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister, viewForgot, viewProductForm:
		return true
	case viewCatalog:
		return a.catalog.editing
	case viewProfile:
		return a.profile.editing
	case viewUsers:
		return a.users.rejecting
	}
	return false
}

func (a App) View() string {
	bar := nav.For(a.state.User)

	logo := renderShimmerLogo(a.frame)
	header := centered(logo, a.width, lipgloss.Width(logo)) + "\n"
	if a.state.User != nil {
		line := dimStyle.Render(bar.Greeting) + " " + RoleBadge(a.state.User.Role)
		header += centered(line, a.width, lipgloss.Width(line))
	}

	current := ""
	if r, ok := guard.Lookup(a.path); ok {
		current = r.Path
	}
	var links []string
	for _, l := range bar.Links {
		if l.Path != "" && l.Path == current {
			links = append(links, accentStyle.Render(l.Key)+" "+selectedStyle.Underline(true).Render(l.Label))
		} else {
			links = append(links, metaStyle.Render(l.Key)+" "+dimStyle.Render(l.Label))
		}
	}
	navLine := strings.Join(links, "   ")
	navLine = centered(navLine, a.width, lipgloss.Width(navLine))

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView(helpItems(a.webURL), a.helpCursor)
		help = helpLine(helpEntry("j/k", "nav"), helpEntry("enter", "open"), helpEntry("esc", "close"))
	case a.pending:
		body = " " + dimStyle.Render("restoring session...")
		help = helpLine(helpEntry("q", "quit"))
	default:
		body, help = a.screen()
	}

	flash := ""
	if a.flash != "" {
		flash = " " + accentStyle.Render(a.flash)
	}

	// Chrome: header(2) + nav(1) + flash(1) + help(1)
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return header + "\n" + navLine + "\n" + body + "\n" + flash + "\n" + help
}

// screen renders the active screen and its help bar.
func (a App) screen() (string, string) {
	formHelp := helpLine(helpEntry("tab", "next"), helpEntry("enter", "submit"), helpEntry("esc", "back"))
	switch a.view {
	case viewCatalog:
		return a.catalog.View(), a.catalog.helpKeys()
	case viewLogin:
		return a.login.View(), formHelp + "  " + helpEntry("ctrl+f", "forgot password")
	case viewRegister:
		return a.register.View(), formHelp
	case viewForgot:
		return a.forgot.View(), formHelp
	case viewCart:
		return a.cart.View(), a.cart.helpKeys()
	case viewWishlist:
		return a.wishlist.View(), a.wishlist.helpKeys()
	case viewOrders:
		return a.orders.View(), a.orders.helpKeys()
	case viewProfile:
		return a.profile.View(), a.profile.helpKeys()
	case viewOnboarding:
		return a.onboarding.View(), a.onboarding.helpKeys()
	case viewDashboard:
		return a.dashboard.View(), a.dashboard.helpKeys()
	case viewSellerProducts:
		return a.sellerProducts.View(), a.sellerProducts.helpKeys()
	case viewProductForm:
		return a.productForm.View(), formHelp
	case viewUsers:
		return a.users.View(), a.users.helpKeys()
	}
	return "", ""
}
