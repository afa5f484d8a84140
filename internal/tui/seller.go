package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

// -- onboarding --

type approvalRequestedMsg struct{ err error }

type statusCopy struct {
	label       string
	description string
}

var onboardingCopy = map[domain.AccountStatus]statusCopy{
	domain.StatusPending: {
		label:       "Pending Review",
		description: "Your request is waiting for admin approval. We will notify you by email once it is processed.",
	},
	domain.StatusApproved: {
		label:       "Approved",
		description: "You can now access all seller capabilities.",
	},
	domain.StatusRejected: {
		label:       "Rejected",
		description: "Please review the reason below and resubmit your request when ready.",
	},
}

type onboardingModel struct {
	client     *client.Client
	session    *session.Controller
	user       *domain.User
	from       string // path the guard redirected from
	submitting bool
	status     string
	failed     bool
}

func newOnboardingModel(c *client.Client, sc *session.Controller) onboardingModel {
	return onboardingModel{client: c, session: sc}
}

func (m onboardingModel) Init() tea.Cmd {
	return refreshSession(m.session)
}

func (m onboardingModel) Update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.user = msg.state.User
		return m, nil

	case approvalRequestedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "Unable to submit request. Please try again.")
			m.failed = true
			return m, nil
		}
		m.status = "Approval request submitted successfully!"
		m.failed = false
		return m, refreshSession(m.session)

	case tea.KeyMsg:
		if m.user == nil || m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "a":
			if !m.user.CanRequestApproval() {
				return m, nil
			}
			m.submitting = true
			m.status = ""
			c := m.client
			return m, func() tea.Msg {
				return approvalRequestedMsg{err: c.RequestSellerApproval(context.Background())}
			}
		case "enter":
			if m.user.Approved() {
				return m, navigate(m.returnPath(), "")
			}
		case "r":
			return m, refreshSession(m.session)
		}
	}
	return m, nil
}

func (m onboardingModel) returnPath() string {
	if m.from != "" && m.from != "/seller/onboarding" {
		return m.from
	}
	return "/seller/dashboard"
}

func (m onboardingModel) helpKeys() string {
	entries := []string{}
	if m.user != nil && m.user.CanRequestApproval() {
		entries = append(entries, helpEntry("a", "request approval"))
	}
	if m.user != nil && m.user.Approved() {
		entries = append(entries, helpEntry("enter", "continue"))
	}
	entries = append(entries, helpEntry("r", "refresh"), helpEntry("q", "quit"))
	return helpLine(entries...)
}

func (m onboardingModel) View() string {
	if m.user == nil {
		return ""
	}
	u := m.user
	cp, ok := onboardingCopy[u.AccountStatus]
	if !ok {
		cp = onboardingCopy[domain.StatusPending]
	}
	style := StatusStyle(u.AccountStatus)

	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", metaStyle.Render("Approval Status"))
	fmt.Fprintf(&b, " %s  %s\n", style.Render(cp.label), dimStyle.Render("["+string(u.AccountStatus)+"]"))
	fmt.Fprintf(&b, " %s\n\n", normalStyle.Render(cp.description))

	last := string(u.AccountStatus)
	if u.LastRejectionReason != "" {
		last = "Rejected"
	}
	fmt.Fprintf(&b, " %s %d    %s %s\n", sectionHeaderStyle.Render("rejections"), u.RejectionCount,
		sectionHeaderStyle.Render("last decision"), last)

	if u.LastRejectionReason != "" {
		fmt.Fprintf(&b, "\n %s\n %s\n", errStyle.Render("Last Rejection Reason"), normalStyle.Render(u.LastRejectionReason))
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("Requesting..."))
	case u.CanRequestApproval():
		b.WriteString(" " + accentStyle.Render("press a to request approval"))
	case u.AccountStatus == domain.StatusPending:
		b.WriteString(" " + dimStyle.Render("Your request is currently being reviewed by the admin team."))
	case u.Approved():
		b.WriteString(" " + okStyle.Render("press enter to continue to "+m.returnPath()))
	}
	if m.status != "" {
		st := okStyle
		if m.failed {
			st = errStyle
		}
		b.WriteString("\n\n " + st.Render(m.status))
	}
	return b.String()
}

// -- seller products and dashboard --

type sellerProductsMsg struct {
	products []domain.Product
	err      error
}

type productDeletedMsg struct {
	name string
	err  error
}

type sellerProductsModel struct {
	client     *client.Client
	user       *domain.User
	products   []domain.Product
	cursor     int
	loading    bool
	err        string
	status     string
	confirming bool
	dashboard  bool // summary view instead of the list
}

func newSellerProductsModel(c *client.Client, dashboard bool) sellerProductsModel {
	return sellerProductsModel{client: c, dashboard: dashboard}
}

func (m sellerProductsModel) Init() tea.Cmd {
	if m.user == nil {
		return nil
	}
	c, id := m.client, m.user.ID
	return func() tea.Msg {
		products, err := c.ListSellerProducts(context.Background(), id)
		return sellerProductsMsg{products: products, err: err}
	}
}

func (m sellerProductsModel) Update(msg tea.Msg) (sellerProductsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.user = msg.state.User
		return m, nil

	case sellerProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.MessageOf(msg.err, msg.err.Error())
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case productDeletedMsg:
		if msg.err != nil {
			m.status = client.MessageOf(msg.err, "delete failed")
			return m, nil
		}
		m.status = "deleted " + msg.name
		return m, m.Init()

	case productSavedMsg:
		if msg.err == nil {
			return m, m.Init()
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" && m.cursor < len(m.products) {
				p := m.products[m.cursor]
				c := m.client
				return m, func() tea.Msg {
					return productDeletedMsg{name: p.Name, err: c.DeleteProduct(context.Background(), p.ID)}
				}
			}
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.products))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.products))
		case "r":
			return m, m.Init()
		case "n":
			return m, navigate("/seller/product/add", "")
		case "e":
			if !m.dashboard && m.cursor < len(m.products) {
				return m, navigate("/seller/products/edit/"+strconv.FormatInt(m.products[m.cursor].ID, 10), "")
			}
		case "d", "delete":
			if !m.dashboard && m.cursor < len(m.products) {
				m.confirming = true
			}
		}
	}
	return m, nil
}

func (m sellerProductsModel) helpKeys() string {
	if m.dashboard {
		return helpLine(helpEntry("n", "new product"), helpEntry("r", "reload"), helpEntry("q", "quit"))
	}
	return helpLine(helpEntry("j/k", "nav"), helpEntry("n", "new"), helpEntry("e", "edit"), helpEntry("d", "delete"),
		helpEntry("r", "reload"), helpEntry("q", "quit"))
}

func (m sellerProductsModel) View() string {
	if m.loading && len(m.products) == 0 {
		return " " + dimStyle.Render("loading products...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if m.dashboard {
		return m.summaryView()
	}
	if len(m.products) == 0 {
		return " " + dimStyle.Render("no products listed yet, press n to add one")
	}

	var b strings.Builder
	for i, p := range m.products {
		line := fmt.Sprintf(" %-32s %10s  %5d", truncStr(p.Name, 32), formatPrice(p.Price), p.Stock)
		if i == m.cursor {
			line = selectedRowBg.Render(selectedStyle.Render(line))
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.confirming {
		b.WriteString("\n " + accentStyle.Render("delete "+m.products[m.cursor].Name+"? (y/n)"))
	} else if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status))
	}
	return b.String()
}

const lowStock = 5

func (m sellerProductsModel) summaryView() string {
	var units, low int
	var value float64
	for _, p := range m.products {
		units += p.Stock
		value += p.Price * float64(p.Stock)
		if p.Stock < lowStock {
			low++
		}
	}
	var b strings.Builder
	if m.user != nil {
		fmt.Fprintf(&b, " %s\n\n", selectedStyle.Render("Welcome back, "+m.user.Name))
	}
	fmt.Fprintf(&b, " %-16s %d\n", sectionHeaderStyle.Render("products"), len(m.products))
	fmt.Fprintf(&b, " %-16s %d\n", sectionHeaderStyle.Render("units in stock"), units)
	fmt.Fprintf(&b, " %-16s %s\n", sectionHeaderStyle.Render("stock value"), priceStyle.Render(formatPrice(value)))
	if low > 0 {
		fmt.Fprintf(&b, " %-16s %s\n", sectionHeaderStyle.Render("low stock"), accentStyle.Render(strconv.Itoa(low)))
	}
	return b.String()
}

// -- add / edit product --

type categoriesLoadedMsg struct {
	categories []domain.Category
	err        error
}

type productToEditMsg struct {
	product *domain.Product
	err     error
}

type productSavedMsg struct {
	product *domain.Product
	edited  bool
	err     error
}

const (
	addName = iota
	addDescription
	addPrice
	addStock
	addImage
	addCategory
)

type productFormModel struct {
	client     *client.Client
	categories []domain.Category
	category   int
	form       form

	editID     int64 // zero when adding
	categoryID int64 // category of the product being edited
}

func newProductFormModel(c *client.Client) productFormModel {
	return productFormModel{
		client: c,
		form: newForm(
			field{label: "name"},
			field{label: "desc"},
			field{label: "price"},
			field{label: "stock"},
			field{label: "image url"},
			field{label: "category"},
		),
	}
}

func (m productFormModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		cats, err := c.ListCategories(context.Background())
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

// startAdd clears the form for a new listing.
func (m productFormModel) startAdd() (productFormModel, tea.Cmd) {
	m.form.reset()
	m.editID, m.categoryID = 0, 0
	m.syncCategory()
	return m, m.Init()
}

// startEdit clears the form and loads product id into it.
func (m productFormModel) startEdit(id int64) (productFormModel, tea.Cmd) {
	m.form.reset()
	m.editID, m.categoryID = id, 0
	c := m.client
	load := func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return productToEditMsg{product: p, err: err}
	}
	return m, tea.Batch(m.Init(), load)
}

func (m productFormModel) Update(msg tea.Msg) (productFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.err != nil {
			m.form.fail(client.MessageOf(msg.err, "could not load categories"))
			return m, nil
		}
		m.categories = msg.categories
		m.category = 0
		m.syncCategory()
		return m, nil

	case productToEditMsg:
		if msg.err != nil {
			m.form.fail(client.MessageOf(msg.err, "Error fetching product details"))
			return m, nil
		}
		p := msg.product
		if p == nil || p.ID != m.editID {
			return m, nil
		}
		m.form.set(addName, p.Name)
		m.form.set(addDescription, p.Description)
		m.form.set(addPrice, strconv.FormatFloat(p.Price, 'f', -1, 64))
		m.form.set(addStock, strconv.Itoa(p.Stock))
		m.form.set(addImage, p.ImageURL)
		if p.Category != nil {
			m.categoryID = p.Category.ID
		}
		m.syncCategory()
		return m, nil

	case productSavedMsg:
		if msg.err != nil {
			m.form.fail(client.MessageOf(msg.err, "Error saving product"))
			return m, nil
		}
		flash := "Listed " + msg.product.Name + "."
		if msg.edited {
			flash = "Updated " + msg.product.Name + "."
		}
		m.form.reset()
		m.editID, m.categoryID = 0, 0
		m.syncCategory()
		return m, navigate("/seller/products", flash)

	case tea.KeyMsg:
		if m.form.focus == addCategory {
			switch msg.String() {
			case "left":
				if len(m.categories) > 0 {
					m.category = (m.category - 1 + len(m.categories)) % len(m.categories)
					m.categoryID = 0
					m.syncCategory()
				}
				return m, nil
			case "right", " ":
				if len(m.categories) > 0 {
					m.category = (m.category + 1) % len(m.categories)
					m.categoryID = 0
					m.syncCategory()
				}
				return m, nil
			case "tab", "shift+tab", "up", "down", "enter", "ctrl+s":
			default:
				return m, nil
			}
		}
		if m.form.updateKeys(msg) {
			return m.submit()
		}
	}
	return m, nil
}

// syncCategory shows the selected category. While the edited product's
// category is known, it wins over the cursor.
func (m *productFormModel) syncCategory() {
	if m.categoryID != 0 {
		for i, cat := range m.categories {
			if cat.ID == m.categoryID {
				m.category = i
				break
			}
		}
	}
	if m.category < len(m.categories) {
		m.form.set(addCategory, m.categories[m.category].Name)
	}
}

func (m productFormModel) submit() (productFormModel, tea.Cmd) {
	req, err := m.request()
	if err != "" {
		m.form.fail(err)
		return m, nil
	}
	if len(m.categories) == 0 {
		m.form.fail("no category available")
		return m, nil
	}
	m.form.submitted = true
	c, catID, id := m.client, m.categories[m.category].ID, m.editID
	if id != 0 {
		return m, func() tea.Msg {
			p, err := c.UpdateProduct(context.Background(), id, catID, req)
			return productSavedMsg{product: p, edited: true, err: err}
		}
	}
	return m, func() tea.Msg {
		p, err := c.CreateProduct(context.Background(), catID, req)
		return productSavedMsg{product: p, err: err}
	}
}

// request parses the form. The second value is a validation message.
func (m productFormModel) request() (client.CreateProductRequest, string) {
	req := client.CreateProductRequest{
		Name:        m.form.value(addName),
		Description: m.form.value(addDescription),
		ImageURL:    m.form.value(addImage),
	}
	if req.Name == "" {
		return req, "name is required"
	}
	price, err := strconv.ParseFloat(m.form.value(addPrice), 64)
	if err != nil || price <= 0 {
		return req, "price must be a positive number"
	}
	stock, err := strconv.Atoi(m.form.value(addStock))
	if err != nil || stock < 0 {
		return req, "stock must be a whole number"
	}
	req.Price = price
	req.Stock = stock
	return req, ""
}

func (m productFormModel) View() string {
	title := "Add product"
	if m.editID != 0 {
		title = "Edit product"
	}
	return " " + sectionHeaderStyle.Render(title) + "\n\n" + m.form.View() +
		"\n " + metaStyle.Render("left/right on category to switch")
}
