package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	apphttp "itemshelf/internal/http"
)

type view int

const (
	viewLogin view = iota
	viewItems
	viewItemForm
	viewUserForm
)

// shelfItem adapts an API item to bubbles/list.Item.
type shelfItem struct {
	item apphttp.ItemResponse
}

func (i shelfItem) Title() string       { return i.item.Title }
func (i shelfItem) Description() string { return i.item.Description }
func (i shelfItem) FilterValue() string { return i.item.Title }

// Messages produced by API commands.
type loggedInMsg struct{}
type itemsLoadedMsg struct{ items []apphttp.ItemResponse }
type itemSavedMsg struct{ title string }
type itemDeletedMsg struct{ title string }
type userCreatedMsg struct{ email string }
type apiFailedMsg struct{ err error }

// Model is the explicit view-model: current view, per-session token (held
// by the client), list state, form inputs and the status line. Update is
// the single event-dispatch function; every API call runs as a tea.Cmd.
type Model struct {
	client *Client

	view view

	// login form
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	// items list
	list   list.Model
	loaded bool

	// item form (add or edit)
	editingID  int64 // 0 when adding
	titleInput textinput.Model
	descInput  textinput.Model
	formFocus  int

	// user form
	newEmailInput textinput.Model
	newPassInput  textinput.Model
	newNameInput  textinput.Model
	newSuperuser  bool
	userFocus     int

	status    string
	statusErr bool
}

func NewModel(client *Client) Model {
	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Prompt = "> "
	title.Placeholder = "title"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "> "
	desc.Placeholder = "description"

	newEmail := textinput.New()
	newEmail.Prompt = "> "
	newEmail.Placeholder = "email"

	newPass := textinput.New()
	newPass.Prompt = "> "
	newPass.Placeholder = "password"
	newPass.EchoMode = textinput.EchoPassword

	newName := textinput.New()
	newName.Prompt = "> "
	newName.Placeholder = "full name (optional)"

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Items"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")

	return Model{
		client:        client,
		view:          viewLogin,
		emailInput:    email,
		passwordInput: password,
		list:          l,
		titleInput:    title,
		descInput:     desc,
		newEmailInput: newEmail,
		newPassInput:  newPass,
		newNameInput:  newName,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case loggedInMsg:
		m.view = viewItems
		m.setStatus("logged in", false)
		return m, m.loadItems()

	case itemsLoadedMsg:
		items := make([]list.Item, 0, len(msg.items))
		for _, it := range msg.items {
			items = append(items, shelfItem{item: it})
		}
		m.list.SetItems(items)
		m.loaded = true
		return m, nil

	case itemSavedMsg:
		m.view = viewItems
		m.setStatus(fmt.Sprintf("saved %q", msg.title), false)
		return m, m.loadItems()

	case itemDeletedMsg:
		m.setStatus(fmt.Sprintf("deleted %q", msg.title), false)
		return m, m.loadItems()

	case userCreatedMsg:
		m.view = viewItems
		m.setStatus(fmt.Sprintf("created user %s", msg.email), false)
		return m, nil

	case apiFailedMsg:
		m.setStatus(notification(msg.err), true)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewLogin:
			return m.updateLogin(msg)
		case viewItems:
			return m.updateItems(msg)
		case viewItemForm:
			return m.updateItemForm(msg)
		case viewUserForm:
			return m.updateUserForm(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.setStatus("email and password are required", true)
			return m, nil
		}
		return m, m.login(email, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.loadItems()
	case "a":
		m.editingID = 0
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.formFocus = 0
		m.titleInput.Focus()
		m.descInput.Blur()
		m.view = viewItemForm
		return m, nil
	case "e":
		sel, ok := m.list.SelectedItem().(shelfItem)
		if !ok {
			return m, nil
		}
		m.editingID = sel.item.ID
		m.titleInput.SetValue(sel.item.Title)
		m.descInput.SetValue(sel.item.Description)
		m.formFocus = 0
		m.titleInput.Focus()
		m.descInput.Blur()
		m.view = viewItemForm
		return m, nil
	case "d":
		sel, ok := m.list.SelectedItem().(shelfItem)
		if !ok {
			return m, nil
		}
		return m, m.deleteItem(sel.item.ID)
	case "u":
		// server rejects this with 403 for non-superusers
		m.newEmailInput.SetValue("")
		m.newPassInput.SetValue("")
		m.newNameInput.SetValue("")
		m.newSuperuser = false
		m.userFocus = 0
		m.newEmailInput.Focus()
		m.newPassInput.Blur()
		m.newNameInput.Blur()
		m.view = viewUserForm
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateItemForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewItems
		return m, nil
	case "tab", "shift+tab":
		m.formFocus = (m.formFocus + 1) % 2
		if m.formFocus == 0 {
			m.titleInput.Focus()
			m.descInput.Blur()
		} else {
			m.titleInput.Blur()
			m.descInput.Focus()
		}
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.setStatus("title cannot be empty", true)
			return m, nil
		}
		desc := m.descInput.Value()
		if m.editingID == 0 {
			return m, m.createItem(title, desc)
		}
		return m, m.updateItem(m.editingID, title, desc)
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateUserForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewItems
		return m, nil
	case "tab", "shift+tab", "down", "up":
		m.userFocus = (m.userFocus + 1) % 3
		m.newEmailInput.Blur()
		m.newPassInput.Blur()
		m.newNameInput.Blur()
		switch m.userFocus {
		case 0:
			m.newEmailInput.Focus()
		case 1:
			m.newPassInput.Focus()
		case 2:
			m.newNameInput.Focus()
		}
		return m, nil
	case "ctrl+s":
		m.newSuperuser = !m.newSuperuser
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.newEmailInput.Value())
		password := m.newPassInput.Value()
		if email == "" || password == "" {
			m.setStatus("email and password are required", true)
			return m, nil
		}
		return m, m.createUser(email, password, m.newNameInput.Value(), m.newSuperuser)
	}

	var cmd tea.Cmd
	switch m.userFocus {
	case 0:
		m.newEmailInput, cmd = m.newEmailInput.Update(msg)
	case 1:
		m.newPassInput, cmd = m.newPassInput.Update(msg)
	case 2:
		m.newNameInput, cmd = m.newNameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var body string
	switch m.view {
	case viewLogin:
		body = strings.Join([]string{
			titleStyle.Render("itemshelf — log in"),
			"",
			"email:    " + m.emailInput.View(),
			"password: " + m.passwordInput.View(),
			"",
			helpStyle.Render("enter: log in • tab: next field • esc: quit"),
		}, "\n")
	case viewItems:
		if !m.loaded {
			body = mutedStyle.Render("loading items...")
			break
		}
		body = m.list.View() + "\n" +
			helpStyle.Render("a: add • e: edit • d: delete • r: reload • u: new user • q: quit")
	case viewItemForm:
		header := "Add item"
		if m.editingID != 0 {
			header = "Edit item"
		}
		body = strings.Join([]string{
			titleStyle.Render(header),
			"",
			"title:       " + m.titleInput.View(),
			"description: " + m.descInput.View(),
			"",
			helpStyle.Render("enter: save • tab: next field • esc: back"),
		}, "\n")
	case viewUserForm:
		super := "no"
		if m.newSuperuser {
			super = "yes"
		}
		body = strings.Join([]string{
			titleStyle.Render("Create user"),
			"",
			"email:     " + m.newEmailInput.View(),
			"password:  " + m.newPassInput.View(),
			"full name: " + m.newNameInput.View(),
			"superuser: " + super,
			"",
			helpStyle.Render("enter: create • tab: next field • ctrl+s: toggle superuser • esc: back"),
		}, "\n")
	}

	if m.status != "" {
		line := successStyle.Render(m.status)
		if m.statusErr {
			line = errorStyle.Render(m.status)
		}
		body += "\n\n" + line
	}
	return panelStyle.Render(body)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// notification collapses transport failures into one generic message;
// application errors surface the server's own wording.
func notification(err error) string {
	if errors.Is(err, ErrServerUnreachable) {
		return "cannot reach the server"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (m Model) login(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Login(context.Background(), email, password); err != nil {
			return apiFailedMsg{err: err}
		}
		return loggedInMsg{}
	}
}

func (m Model) loadItems() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, err := client.ListItems(context.Background())
		if err != nil {
			return apiFailedMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func (m Model) createItem(title, description string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		item, err := client.CreateItem(context.Background(), title, description)
		if err != nil {
			return apiFailedMsg{err: err}
		}
		return itemSavedMsg{title: item.Title}
	}
}

func (m Model) updateItem(id int64, title, description string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		item, err := client.UpdateItem(context.Background(), id, &title, &description)
		if err != nil {
			return apiFailedMsg{err: err}
		}
		return itemSavedMsg{title: item.Title}
	}
}

func (m Model) deleteItem(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		item, err := client.DeleteItem(context.Background(), id)
		if err != nil {
			return apiFailedMsg{err: err}
		}
		return itemDeletedMsg{title: item.Title}
	}
}

func (m Model) createUser(email, password, fullName string, superuser bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.CreateUser(context.Background(), email, password, fullName, superuser)
		if err != nil {
			return apiFailedMsg{err: err}
		}
		return userCreatedMsg{email: user.Email}
	}
}
