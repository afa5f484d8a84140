package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

type ordersLoadedMsg struct {
	orders []domain.Order
	err    error
}

type orderCancelledMsg struct {
	id  int64
	err error
}

type ordersModel struct {
	client   *client.Client
	orders   []domain.Order
	cursor   int
	expanded bool
	loading  bool
	err      string
	status   string
}

func newOrdersModel(c *client.Client) ordersModel {
	return ordersModel{client: c}
}

func (m ordersModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		orders, err := c.ListMyOrders(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func (m ordersModel) Update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.MessageOf(msg.err, msg.err.Error())
			return m, nil
		}
		m.err = ""
		m.orders = msg.orders
		if m.cursor >= len(m.orders) {
			m.cursor = 0
		}
		return m, nil

	case orderCancelledMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "could not cancel order")
			return m, nil
		}
		m.status = fmt.Sprintf("order #%d cancelled", msg.id)
		return m, m.Init()

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.what
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		c := m.client
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.orders))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.orders))
		case "enter":
			m.expanded = !m.expanded
		case "r":
			return m, m.Init()
		case "x":
			if m.cursor < len(m.orders) {
				o := m.orders[m.cursor]
				if !o.Cancellable() {
					m.status = "only placed orders can be cancelled"
					return m, nil
				}
				return m, func() tea.Msg {
					return orderCancelledMsg{id: o.ID, err: c.CancelOrder(context.Background(), o.ID)}
				}
			}
		case "c":
			if m.cursor < len(m.orders) {
				id := strconv.FormatInt(m.orders[m.cursor].ID, 10)
				return m, func() tea.Msg {
					return copiedMsg{what: "order id " + id, err: clipboard.WriteAll(id)}
				}
			}
		}
	}
	return m, nil
}

func (m ordersModel) helpKeys() string {
	return helpLine(helpEntry("j/k", "nav"), helpEntry("enter", "items"), helpEntry("x", "cancel"),
		helpEntry("c", "copy id"), helpEntry("r", "reload"), helpEntry("q", "quit"))
}

func (m ordersModel) View() string {
	if m.loading && len(m.orders) == 0 {
		return " " + dimStyle.Render("loading orders...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if len(m.orders) == 0 {
		return " " + dimStyle.Render("no orders yet")
	}

	var b strings.Builder
	for i, o := range m.orders {
		line := fmt.Sprintf(" #%-6d %-10s %10s  ", o.ID, o.Date(), formatPrice(o.TotalAmount))
		status := orderStyle(o.Status).Render(o.Status)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render(line)) + status + "\n")
			if m.expanded {
				for _, it := range o.Items {
					fmt.Fprintf(&b, "     %s x%d %s\n", truncStr(it.Product.Name, 30), it.Quantity, dimStyle.Render(formatPrice(it.Price)))
				}
			}
			continue
		}
		b.WriteString(normalStyle.Render(line) + status + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}
