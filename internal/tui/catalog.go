package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/browser"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// -- messages --

type productsLoadedMsg struct {
	products []domain.Product
	err      error
}

type productLoadedMsg struct {
	product *domain.Product
	err     error
}

type wishlistIDsMsg struct {
	wishlist *domain.Wishlist
	err      error
}

type cartAddedMsg struct {
	name string
	err  error
}

type wishlistToggledMsg struct {
	id    int64
	added bool
	err   error
}

type copiedMsg struct {
	what string
	err  error
}

// -- model --

type catalogModel struct {
	client   *client.Client
	webURL   string
	user     *domain.User
	products []domain.Product
	wished   map[int64]bool
	cursor   int
	loading  bool
	err      string
	status   string

	query   string
	editing bool // typing a search query

	detail   *domain.Product
	quantity int
}

func newCatalogModel(c *client.Client, webURL string) catalogModel {
	return catalogModel{client: c, webURL: webURL, wished: map[int64]bool{}, loading: true}
}

func (m catalogModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.customer() {
		cmds = append(cmds, m.loadWishlist())
	}
	return tea.Batch(cmds...)
}

func (m catalogModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		products, err := c.ListProducts(context.Background())
		return productsLoadedMsg{products: products, err: err}
	}
}

func (m catalogModel) loadWishlist() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		w, err := c.GetWishlist(context.Background())
		return wishlistIDsMsg{wishlist: w, err: err}
	}
}

// open shows the detail of one product, fetched fresh from the server.
func (m catalogModel) open(id int64) (catalogModel, tea.Cmd) {
	m.quantity = 1
	c := m.client
	return m, func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return productLoadedMsg{product: p, err: err}
	}
}

func (m catalogModel) customer() bool {
	return m.user != nil && m.user.Role == domain.RoleUser
}

// visible returns the products matching the search query.
func (m catalogModel) visible() []domain.Product {
	q := strings.ToLower(strings.TrimSpace(m.query))
	if q == "" {
		return m.products
	}
	var out []domain.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			(p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), q)) {
			out = append(out, p)
		}
	}
	return out
}

func (m catalogModel) selected() (domain.Product, bool) {
	if m.detail != nil {
		return *m.detail, true
	}
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return domain.Product{}, false
	}
	return vis[m.cursor], true
}

func (m catalogModel) Update(msg tea.Msg) (catalogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.user = msg.state.User
		if !m.customer() {
			m.wished = map[int64]bool{}
			return m, nil
		}
		return m, m.loadWishlist()

	case productsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case productLoadedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "product not found")
			return m, nil
		}
		m.detail = msg.product
		return m, nil

	case wishlistIDsMsg:
		if msg.err == nil && msg.wishlist != nil {
			m.wished = map[int64]bool{}
			for _, p := range msg.wishlist.Products {
				m.wished[p.ID] = true
			}
		}
		return m, nil

	case cartAddedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "could not add to cart")
		} else {
			m.status = "added " + msg.name + " to cart"
		}
		return m, nil

	case wishlistToggledMsg:
		switch {
		case msg.err != nil:
			m.status = client.MessageOf(msg.err, "wishlist update failed")
		case msg.added:
			m.wished[msg.id] = true
			m.status = "saved to wishlist"
		default:
			delete(m.wished, msg.id)
			m.status = "removed from wishlist"
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.what
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m catalogModel) updateSearch(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
	case "esc":
		m.editing = false
		m.query = ""
	default:
		m.query = editKey(m.query, msg)
	}
	m.cursor = 0
	return m, nil
}

func (m catalogModel) updateKeys(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	m.status = ""

	if m.detail != nil {
		switch msg.String() {
		case "esc", "backspace":
			m.detail = nil
			return m, nil
		case "+", "=":
			if m.quantity < m.detail.Stock {
				m.quantity++
			}
			return m, nil
		case "-":
			if m.quantity > 1 {
				m.quantity--
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "j", "down":
		if m.detail == nil {
			m.cursor = moveCursor(m.cursor, 1, len(m.visible()))
		}
	case "k", "up":
		if m.detail == nil {
			m.cursor = moveCursor(m.cursor, -1, len(m.visible()))
		}
	case "/":
		if m.detail == nil {
			m.editing = true
		}
	case "r":
		m.loading = true
		return m, m.Init()
	case "enter":
		if p, ok := m.selected(); ok && m.detail == nil {
			return m.open(p.ID)
		}
	case "a":
		if p, ok := m.selected(); ok {
			return m.addToCart(p)
		}
	case "w":
		if p, ok := m.selected(); ok {
			return m.toggleWishlist(p)
		}
	case "c":
		if p, ok := m.selected(); ok {
			id := strconv.FormatInt(p.ID, 10)
			return m, func() tea.Msg {
				return copiedMsg{what: "product id " + id, err: clipboard.WriteAll(id)}
			}
		}
	case "o":
		if p, ok := m.selected(); ok {
			url := browser.ProductURL(m.webURL, p.ID)
			if err := browser.Open(url); err != nil {
				m.status = "open failed: " + err.Error()
			} else {
				m.status = "opened " + url
			}
		}
	}
	return m, nil
}

// requireCustomer sends anonymous visitors to login and blocks other roles.
func (m catalogModel) requireCustomer(action string) (catalogModel, tea.Cmd, bool) {
	if m.user == nil {
		return m, navigate("/login", "Please log in to "+action+"."), false
	}
	if m.user.Role != domain.RoleUser {
		m.status = "only customer accounts can " + action
		return m, nil, false
	}
	return m, nil, true
}

func (m catalogModel) addToCart(p domain.Product) (catalogModel, tea.Cmd) {
	m, cmd, ok := m.requireCustomer("add items to your cart")
	if !ok {
		return m, cmd
	}
	if !p.InStock() {
		m.status = "out of stock"
		return m, nil
	}
	qty := 1
	if m.detail != nil {
		qty = m.quantity
	}
	c := m.client
	return m, func() tea.Msg {
		err := c.AddToCart(context.Background(), p.ID, qty)
		return cartAddedMsg{name: p.Name, err: err}
	}
}

func (m catalogModel) toggleWishlist(p domain.Product) (catalogModel, tea.Cmd) {
	m, cmd, ok := m.requireCustomer("use the wishlist")
	if !ok {
		return m, cmd
	}
	c := m.client
	if m.wished[p.ID] {
		return m, func() tea.Msg {
			err := c.RemoveFromWishlist(context.Background(), p.ID)
			return wishlistToggledMsg{id: p.ID, added: false, err: err}
		}
	}
	return m, func() tea.Msg {
		err := c.AddToWishlist(context.Background(), p.ID)
		return wishlistToggledMsg{id: p.ID, added: true, err: err}
	}
}

func (m catalogModel) helpKeys() string {
	if m.editing {
		return helpLine(helpEntry("enter", "apply"), helpEntry("esc", "clear"))
	}
	if m.detail != nil {
		return helpLine(helpEntry("a", "add to cart"), helpEntry("+/-", "qty"), helpEntry("w", "wishlist"),
			helpEntry("c", "copy id"), helpEntry("o", "open"), helpEntry("esc", "back"))
	}
	return helpLine(helpEntry("j/k", "nav"), helpEntry("enter", "details"), helpEntry("/", "search"),
		helpEntry("a", "add to cart"), helpEntry("w", "wishlist"), helpEntry("?", "help"), helpEntry("q", "quit"))
}

func (m catalogModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}
	if m.loading && len(m.products) == 0 {
		return " " + dimStyle.Render("loading products...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}

	var b strings.Builder
	if m.editing || m.query != "" {
		b.WriteString(" " + inputPromptStyle.Render("/ ") + m.query)
		if m.editing {
			b.WriteString("█")
		}
		b.WriteString("\n")
	}

	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(" " + dimStyle.Render("no products found"))
		return b.String()
	}

	for i, p := range vis {
		heart := " "
		if m.wished[p.ID] {
			heart = accentStyle.Render("♥")
		}
		cat := ""
		if p.Category != nil {
			cat = p.Category.Name
		}
		stock := dimStyle.Render(fmt.Sprintf("%d left", p.Stock))
		if !p.InStock() {
			stock = errStyle.Render("sold out")
		}
		line := fmt.Sprintf(" %s %-32s %10s  %-14s %s",
			heart, truncStr(p.Name, 32), formatPrice(p.Price), truncStr(cat, 14), stock)
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(line))
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}

func (m catalogModel) detailView() string {
	p := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", selectedStyle.Render(p.Name))
	if p.Category != nil {
		fmt.Fprintf(&b, " %s\n", metaStyle.Render(p.Category.Name))
	}
	fmt.Fprintf(&b, "\n %s   %s\n", priceStyle.Render(formatPrice(p.Price)), dimStyle.Render(fmt.Sprintf("%d in stock", p.Stock)))
	if p.Description != "" {
		fmt.Fprintf(&b, "\n %s\n", normalStyle.Render(oneLine(p.Description)))
	}
	if m.wished[p.ID] {
		fmt.Fprintf(&b, "\n %s\n", accentStyle.Render("♥ on your wishlist"))
	}
	fmt.Fprintf(&b, "\n quantity: %s\n", selectedStyle.Render(strconv.Itoa(m.quantity)))
	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}
