package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oratio-cli/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// historySyncedMsg carries a fresh engine snapshot after any history
// operation completes.
type historySyncedMsg struct {
	state app.HistoryState
}

// historyActionErrMsg reports a failed delete or clear. These are surfaced as
// a transient alert instead of the panel's error line: the user explicitly
// asked for a destructive action and must see that it did not happen.
type historyActionErrMsg struct {
	err error
}

// recordSelectedMsg tells the parent a past analysis was picked.
type recordSelectedMsg struct {
	record app.HistoryRecord
}

// HistoryPanel renders the sync engine's state and forwards load-more,
// delete and clear intents to it. It never talks to the result panel; the
// parent model routes recordSelectedMsg.
type HistoryPanel struct {
	engine  *app.HistorySync
	timeout time.Duration

	state  app.HistoryState
	cursor int
	alert  string

	width  int
	height int
}

func NewHistoryPanel(engine *app.HistorySync, timeout time.Duration) HistoryPanel {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return HistoryPanel{engine: engine, timeout: timeout}
}

// Refresh is the panel's externally exposed resync entry point. The parent
// invokes it after out-of-band mutations (a finished analysis) without
// knowing anything else about the panel.
func (p *HistoryPanel) Refresh() tea.Cmd {
	p.state.Loading = true
	engine, timeout := p.engine, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = engine.Refresh(ctx)
		return historySyncedMsg{state: engine.Snapshot()}
	}
}

func (p *HistoryPanel) loadMore() tea.Cmd {
	if p.state.Loading || !p.state.HasMore() {
		return nil
	}
	p.state.Loading = true
	engine, timeout := p.engine, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = engine.LoadMore(ctx)
		return historySyncedMsg{state: engine.Snapshot()}
	}
}

func (p *HistoryPanel) deleteSelected() tea.Cmd {
	if p.cursor >= len(p.state.Items) {
		return nil
	}
	id := p.state.Items[p.cursor].ID
	engine, timeout := p.engine, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := engine.DeleteItem(ctx, id); err != nil {
			return historyActionErrMsg{err: err}
		}
		return historySyncedMsg{state: engine.Snapshot()}
	}
}

func (p *HistoryPanel) clearAll() tea.Cmd {
	if len(p.state.Items) == 0 {
		return nil
	}
	engine, timeout := p.engine, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := engine.ClearAll(ctx); err != nil {
			return historyActionErrMsg{err: err}
		}
		return historySyncedMsg{state: engine.Snapshot()}
	}
}

func (p *HistoryPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p HistoryPanel) Update(msg tea.Msg) (HistoryPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case historySyncedMsg:
		p.state = msg.state
		p.alert = ""
		if p.cursor >= len(p.state.Items) {
			p.cursor = len(p.state.Items) - 1
		}
		if p.cursor < 0 {
			p.cursor = 0
		}
		return p, nil

	case historyActionErrMsg:
		p.alert = app.UserMessage(msg.err)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.state.Items)-1 {
				p.cursor++
			} else if p.cursor == len(p.state.Items)-1 && p.state.HasMore() {
				// Walking past the end pulls in the next page.
				return p, p.loadMore()
			}
		case "enter":
			if p.cursor < len(p.state.Items) {
				rec := p.state.Items[p.cursor]
				return p, func() tea.Msg { return recordSelectedMsg{record: rec} }
			}
		case "m", "pgdown":
			return p, p.loadMore()
		case "r":
			return p, p.Refresh()
		case "d":
			return p, p.deleteSelected()
		case "C":
			return p, p.clearAll()
		}
	}
	return p, nil
}

func (p HistoryPanel) View(t Theme, focused bool) string {
	var b strings.Builder

	title := fmt.Sprintf("History %d/%d", len(p.state.Items), p.state.TotalCount)
	if p.state.Loading {
		title += " " + t.Spinner.Render("…")
	}
	b.WriteString(t.PaneTitle.Render(title))
	b.WriteString("\n")

	if len(p.state.Items) == 0 && !p.state.Loading {
		b.WriteString(t.TopBarMeta.Render("no analyses yet"))
		b.WriteString("\n")
	}

	visible := p.height - 4
	if visible < 1 {
		visible = len(p.state.Items)
	}
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	for i := start; i < len(p.state.Items) && i < start+visible; i++ {
		rec := p.state.Items[i]
		line := fmt.Sprintf("%.2f  %s", rec.AnalysisResult.Summary.Score, previewText(rec.OriginalText, p.width-12))
		if i == p.cursor && focused {
			b.WriteString(t.ItemSel.Render("▸ " + line))
		} else {
			b.WriteString(t.ItemPlain.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if p.state.HasMore() {
		b.WriteString(t.TopBarMeta.Render("  ↓ more"))
		b.WriteString("\n")
	}
	if p.state.Err != "" {
		b.WriteString(t.ErrText.Render(p.state.Err))
		b.WriteString("\n")
	}
	if p.alert != "" {
		b.WriteString(t.ErrText.Render("! " + p.alert))
		b.WriteString("\n")
	}
	return b.String()
}

func previewText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max < 8 {
		max = 8
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
