package login

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"teamdeck/internal/theme"
)

// Authenticator exchanges credentials for an API token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// DoneMsg reports a successful login with the issued token.
type DoneMsg struct {
	Token string
}

// errMsg carries a failed login attempt back into the form.
type errMsg struct {
	err error
}

// Model runs the interactive login form.
type Model struct {
	auth Authenticator
	log  zerolog.Logger

	form *huh.Form
	// Bound into the form as pointers so every copy of the model
	// sees what the user typed.
	email    *string
	password *string
	waiting  bool
	err      error

	width int
}

func New(auth Authenticator, log zerolog.Logger) Model {
	m := Model{auth: auth, log: log, email: new(string), password: new(string)}
	m.form = newForm(m.email, m.password)
	return m
}

func newForm(email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		),
	)
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize updates the available drawing area.
func (m Model) SetSize(width, _ int) Model {
	m.width = width
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.waiting = false
		m.err = msg.err
		// Restart the form so the user can correct and retry.
		m.form = newForm(m.email, m.password)
		return m, m.form.Init()
	}

	if m.waiting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.waiting = true
		return m, m.login()
	}
	return m, cmd
}

func (m Model) login() tea.Cmd {
	auth := m.auth
	email, password := *m.email, *m.password
	log := m.log
	return func() tea.Msg {
		token, err := auth.Login(context.Background(), email, password)
		if err != nil {
			log.Warn().Err(err).Msg("login failed")
			return errMsg{err: err}
		}
		return DoneMsg{Token: token}
	}
}

func (m Model) View() string {
	if m.waiting {
		return theme.MutedStyle.Render("Signing in…")
	}
	parts := []string{
		theme.PanelTitleStyle.Render("Sign in to teamdeck"),
		m.form.View(),
	}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
