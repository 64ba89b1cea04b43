package tui

import (
	"context"
	"fmt"
	"strings"

	"oratio-cli/internal/app"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
	focusResult
)

type analyzeDoneMsg struct {
	result *app.AnalysisResult
	err    error
}

// MainModel owns the three panels. It is the only place that knows about
// more than one of them: the analyze flow hands its completion to the
// history panel's Refresh capability, and a history selection is routed to
// the result panel. The panels themselves never touch each other.
type MainModel struct {
	app   *app.Application
	theme Theme

	loggedIn bool
	login    LoginModel

	input   textarea.Model
	history HistoryPanel
	result  ResultPanel

	focus     focusArea
	analyzing bool
	status    string

	width  int
	height int
}

func New(application *app.Application, themeName string) *MainModel {
	theme := NewTheme(themeName)

	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to check for bias, then press Enter."
	ta.CharLimit = 8000
	ta.SetHeight(4)
	ta.ShowLineNumbers = false
	ta.Focus()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	return &MainModel{
		app:      application,
		theme:    theme,
		loggedIn: application.Session.IsAuthenticated(),
		login:    NewLoginModel(application),
		input:    ta,
		history:  NewHistoryPanel(application.History, application.Config.Timeout()),
		result:   NewResultPanel(theme),
	}
}

func (m *MainModel) Init() tea.Cmd {
	if m.loggedIn {
		return tea.Batch(textarea.Blink, m.history.Refresh())
	}
	return textarea.Blink
}

func (m *MainModel) submitAnalysis() tea.Cmd {
	text := m.input.Value()
	application := m.app
	m.analyzing = true
	m.status = ""
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), application.Config.Timeout())
		defer cancel()
		res, err := application.Analyze(ctx, text)
		return analyzeDoneMsg{result: res, err: err}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width*2/3 - 4)
		m.history.SetSize(msg.Width/3-4, msg.Height-4)
		m.result.SetSize(msg.Width*2/3-4, m.resultHeight())
		return m, nil

	case authDoneMsg:
		m.login, _ = m.login.Update(msg)
		if msg.err == nil {
			m.loggedIn = true
			return m, m.history.Refresh()
		}
		return m, nil

	case analyzeDoneMsg:
		m.analyzing = false
		if msg.err != nil {
			m.status = app.UserMessage(msg.err)
			return m, nil
		}
		m.input.Reset()
		m.result.SetResult("Latest analysis", *msg.result)
		// The result is on screen; only now nudge the history panel to pick
		// up the record the server just stored.
		return m, m.history.Refresh()

	case recordSelectedMsg:
		m.result.SetResult(fmt.Sprintf("History #%d", msg.record.ID), msg.record.AnalysisResult)
		m.focus = focusResult
		return m, nil

	case historySyncedMsg, historyActionErrMsg:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.loggedIn {
			switch msg.String() {
			case "ctrl+c", "esc":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.focus = (m.focus + 1) % 3
			if m.focus == focusInput {
				cmds = append(cmds, m.input.Focus())
			} else {
				m.input.Blur()
			}
			return m, tea.Batch(cmds...)
		case "ctrl+l":
			_ = m.app.Logout()
			m.loggedIn = false
			m.login = NewLoginModel(m.app)
			return m, nil
		}

		switch m.focus {
		case focusHistory:
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		case focusResult:
			switch msg.String() {
			case "up", "k":
				m.result.ScrollUp()
			case "down", "j":
				m.result.ScrollDown()
			}
			return m, nil
		default:
			if msg.String() == "enter" && !m.analyzing {
				if strings.TrimSpace(m.input.Value()) == "" {
					return m, nil
				}
				return m, m.submitAnalysis()
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	if !m.loggedIn {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *MainModel) resultHeight() int {
	h := m.height - m.input.Height() - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m *MainModel) View() string {
	t := m.theme

	if !m.loggedIn {
		return "\n" + m.login.View(t, max(40, m.width-4))
	}

	who := ""
	if u := m.app.Session.User(); u != nil {
		who = u.Email
	}
	top := lipgloss.JoinHorizontal(lipgloss.Center,
		t.TopBarTitle.Render(" Oratio "),
		t.TopBarMeta.Render(" bias check · "+who),
	)

	inputBox := t.InputBox
	if m.focus == focusInput {
		inputBox = t.InputBoxF
	}
	inputView := inputBox.Width(m.width*2/3 - 2).Render(m.input.View())

	resultPane := t.Pane
	if m.focus == focusResult {
		resultPane = t.PaneFocused
	}
	resultView := resultPane.Width(m.width*2/3 - 2).Render(m.result.View(t))

	historyPane := t.Pane
	if m.focus == focusHistory {
		historyPane = t.PaneFocused
	}
	historyView := historyPane.Width(m.width/3 - 2).Render(m.history.View(t, m.focus == focusHistory))

	left := lipgloss.JoinVertical(lipgloss.Left, inputView, resultView)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, historyView)

	footerText := "enter analyze · tab focus · ctrl+l logout · ctrl+c quit"
	if m.focus == focusHistory {
		footerText = "enter open · d delete · C clear all · m more · r refresh · tab focus"
	}
	if m.analyzing {
		footerText = "analyzing… " + footerText
	}
	if m.status != "" {
		footerText = t.ErrText.Render(m.status) + "  " + footerText
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, body, t.Footer.Render(footerText))
}
