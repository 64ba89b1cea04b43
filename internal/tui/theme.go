package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor

	Accent  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Warn    lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style

	ItemSel   lipgloss.Style
	ItemPlain lipgloss.Style
	ErrText   lipgloss.Style
	Highlight lipgloss.Style
	Suggest   lipgloss.Style
}

func NewTheme(name string) Theme {
	if name == "" {
		name = os.Getenv("ORATIO_THEME")
	}
	if os.Getenv("ORATIO_NO_COLOR") == "1" {
		return newNoColorTheme()
	}
	switch ThemeName(name) {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func newPorcelainTheme() Theme {
	t := Theme{Name: ThemePorcelain}
	t.TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2933", Dark: "#E4E7EB"}
	t.TextMuted = lipgloss.AdaptiveColor{Light: "#7B8794", Dark: "#9AA5B1"}
	t.Accent = lipgloss.AdaptiveColor{Light: "#2F80ED", Dark: "#6CA8FF"}
	t.Success = lipgloss.AdaptiveColor{Light: "#1F9D55", Dark: "#51CF66"}
	t.Warn = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#FFD43B"}
	t.Error = lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#FF6B6B"}
	return t.build()
}

func newMidnightTheme() Theme {
	t := Theme{Name: ThemeMidnight}
	t.TextPrimary = lipgloss.AdaptiveColor{Light: "#24292F", Dark: "#C9D1D9"}
	t.TextMuted = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#8B949E"}
	t.Accent = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#BC8CFF"}
	t.Success = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	t.Warn = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	t.Error = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	return t.build()
}

func newNoColorTheme() Theme {
	t := Theme{Name: "nocolor"}
	t.TopBar = lipgloss.NewStyle()
	t.TopBarTitle = lipgloss.NewStyle().Bold(true)
	t.TopBarMeta = lipgloss.NewStyle()
	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.ThickBorder())
	t.PaneTitle = lipgloss.NewStyle().Bold(true)
	t.Footer = lipgloss.NewStyle()
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.ThickBorder())
	t.Spinner = lipgloss.NewStyle()
	t.ItemSel = lipgloss.NewStyle().Reverse(true)
	t.ItemPlain = lipgloss.NewStyle()
	t.ErrText = lipgloss.NewStyle().Bold(true)
	t.Highlight = lipgloss.NewStyle().Underline(true)
	t.Suggest = lipgloss.NewStyle().Italic(true)
	return t
}

func (t Theme) build() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1)
	t.TopBarTitle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.TextMuted).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.TextMuted)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent)
	t.Spinner = lipgloss.NewStyle().Foreground(t.Accent)
	t.ItemSel = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.ItemPlain = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.ErrText = lipgloss.NewStyle().Foreground(t.Error)
	t.Highlight = lipgloss.NewStyle().Foreground(t.Error).Underline(true)
	t.Suggest = lipgloss.NewStyle().Foreground(t.Success).Italic(true)
	return t
}
