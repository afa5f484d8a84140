package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type cartLoadedMsg struct {
	cart *domain.Cart
	err  error
}

type cartChangedMsg struct {
	status string
	err    error
}

type orderPlacedMsg struct {
	order *domain.Order
	err   error
}

type cartModel struct {
	client     *client.Client
	cart       *domain.Cart
	cursor     int
	loading    bool
	err        string
	status     string
	confirming bool // clear-cart confirmation
}

func newCartModel(c *client.Client) cartModel {
	return cartModel{client: c}
}

func (m cartModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		cart, err := c.GetCart(context.Background())
		return cartLoadedMsg{cart: cart, err: err}
	}
}

func (m cartModel) items() []domain.CartItem {
	if m.cart == nil {
		return nil
	}
	return m.cart.Items
}

func (m cartModel) Update(msg tea.Msg) (cartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cartLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.MessageOf(msg.err, msg.err.Error())
			return m, nil
		}
		m.err = ""
		m.cart = msg.cart
		if m.cursor >= len(m.items()) {
			m.cursor = 0
		}
		return m, nil

	case cartChangedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "cart update failed")
			return m, nil
		}
		m.status = msg.status
		return m, m.Init()

	case orderPlacedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "could not place order")
			return m, nil
		}
		m.cart = nil
		flash := "Order placed."
		if msg.order != nil && msg.order.ID != 0 {
			flash = fmt.Sprintf("Order #%d placed.", msg.order.ID)
		}
		return m, navigate("/orders", flash)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m cartModel) updateKeys(msg tea.KeyMsg) (cartModel, tea.Cmd) {
	m.status = ""
	c := m.client

	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			return m, func() tea.Msg {
				return cartChangedMsg{status: "cart cleared", err: c.ClearCart(context.Background())}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, len(m.items()))
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, len(m.items()))
	case "r":
		return m, m.Init()
	case "d", "delete":
		items := m.items()
		if m.cursor < len(items) {
			it := items[m.cursor]
			return m, func() tea.Msg {
				err := c.RemoveCartItem(context.Background(), it.ID)
				return cartChangedMsg{status: "removed " + it.Product.Name, err: err}
			}
		}
	case "x":
		if len(m.items()) > 0 {
			m.confirming = true
		}
	case "p":
		if len(m.items()) == 0 {
			m.status = "your cart is empty"
			return m, nil
		}
		return m, func() tea.Msg {
			o, err := c.PlaceOrder(context.Background())
			return orderPlacedMsg{order: o, err: err}
		}
	}
	return m, nil
}

func (m cartModel) helpKeys() string {
	return helpLine(helpEntry("j/k", "nav"), helpEntry("d", "remove"), helpEntry("x", "clear"),
		helpEntry("p", "place order"), helpEntry("r", "reload"), helpEntry("q", "quit"))
}

func (m cartModel) View() string {
	if m.loading && m.cart == nil {
		return " " + dimStyle.Render("loading cart...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}

	var b strings.Builder
	items := m.items()
	if len(items) == 0 {
		b.WriteString(" " + dimStyle.Render("your cart is empty"))
	}
	for i, it := range items {
		line := fmt.Sprintf(" %-32s x%-3d %10s", truncStr(it.Product.Name, 32), it.Quantity, formatPrice(it.Subtotal()))
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(line))
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(items) > 0 {
		fmt.Fprintf(&b, "\n %s %s\n", sectionHeaderStyle.Render("total"), priceStyle.Render(formatPrice(m.cart.TotalAmount)))
	}
	if m.confirming {
		b.WriteString("\n " + accentStyle.Render("clear the whole cart? (y/n)"))
	} else if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}

// -- wishlist --

type wishlistLoadedMsg struct {
	wishlist *domain.Wishlist
	err      error
}

type wishlistModel struct {
	client   *client.Client
	products []domain.Product
	cursor   int
	loading  bool
	err      string
	status   string
}

func newWishlistModel(c *client.Client) wishlistModel {
	return wishlistModel{client: c}
}

func (m wishlistModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		w, err := c.GetWishlist(context.Background())
		return wishlistLoadedMsg{wishlist: w, err: err}
	}
}

func (m wishlistModel) Update(msg tea.Msg) (wishlistModel, tea.Cmd) {
	switch msg := msg.(type) {
	case wishlistLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.MessageOf(msg.err, msg.err.Error())
			return m, nil
		}
		m.err = ""
		m.products = nil
		if msg.wishlist != nil {
			m.products = msg.wishlist.Products
		}
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case wishlistToggledMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "wishlist update failed")
			return m, nil
		}
		return m, m.Init()

	case cartAddedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "could not add to cart")
		} else {
			m.status = "added " + msg.name + " to cart"
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		c := m.client
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.products))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.products))
		case "r":
			return m, m.Init()
		case "d", "delete":
			if m.cursor < len(m.products) {
				p := m.products[m.cursor]
				return m, func() tea.Msg {
					err := c.RemoveFromWishlist(context.Background(), p.ID)
					return wishlistToggledMsg{id: p.ID, err: err}
				}
			}
		case "a":
			if m.cursor < len(m.products) {
				p := m.products[m.cursor]
				return m, func() tea.Msg {
					return cartAddedMsg{name: p.Name, err: c.AddToCart(context.Background(), p.ID, 1)}
				}
			}
		}
	}
	return m, nil
}

func (m wishlistModel) helpKeys() string {
	return helpLine(helpEntry("j/k", "nav"), helpEntry("a", "add to cart"), helpEntry("d", "remove"),
		helpEntry("r", "reload"), helpEntry("q", "quit"))
}

func (m wishlistModel) View() string {
	if m.loading && len(m.products) == 0 {
		return " " + dimStyle.Render("loading wishlist...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if len(m.products) == 0 {
		return " " + dimStyle.Render("your wishlist is empty")
	}
	var b strings.Builder
	for i, p := range m.products {
		line := fmt.Sprintf(" %s %-32s %10s", accentStyle.Render("♥"), truncStr(p.Name, 32), formatPrice(p.Price))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}
