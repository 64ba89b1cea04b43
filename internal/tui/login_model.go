package tui

import (
	"context"
	"strings"

	"oratio-cli/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authDoneMsg struct {
	err error
}

type authMode int

const (
	authLogin authMode = iota
	authSignup
)

// LoginModel is the pre-authentication screen: email and password inputs,
// with ctrl+t flipping between login and signup.
type LoginModel struct {
	app  *app.Application
	mode authMode

	email    textinput.Model
	password textinput.Model
	focusPwd bool

	submitting bool
	errText    string
}

func NewLoginModel(application *app.Application) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{app: application, email: email, password: password}
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}
	m.submitting = true
	m.errText = ""
	application, mode := m.app, m.mode
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == authSignup {
			err = application.Signup(ctx, email, password)
		} else {
			err = application.Login(ctx, email, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = app.UserMessage(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			m.focusPwd = !m.focusPwd
			if m.focusPwd {
				m.email.Blur()
				return m, m.password.Focus()
			}
			m.password.Blur()
			return m, m.email.Focus()
		case "ctrl+t":
			if m.mode == authLogin {
				m.mode = authSignup
			} else {
				m.mode = authLogin
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focusPwd {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

func (m LoginModel) View(t Theme, width int) string {
	var b strings.Builder
	heading := "Log in to Oratio"
	hint := "enter to submit · tab to switch fields · ctrl+t to sign up instead"
	if m.mode == authSignup {
		heading = "Create an Oratio account"
		hint = "enter to submit · tab to switch fields · ctrl+t to log in instead"
	}
	b.WriteString(t.TopBarTitle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(t.Spinner.Render("signing in…"))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(t.ErrText.Render(m.errText))
		b.WriteString("\n")
	}
	b.WriteString(t.Footer.Render(hint))
	return t.Pane.Width(width).Render(b.String())
}
