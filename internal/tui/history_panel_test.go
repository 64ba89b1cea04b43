package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"oratio-cli/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// stubHistoryAPI implements app.HistoryAPI over a fixed record list.
type stubHistoryAPI struct {
	mu      sync.Mutex
	records []app.HistoryRecord
	delErr  error
	clrErr  error
}

func (s *stubHistoryAPI) History(ctx context.Context, limit, offset int) (*app.HistoryPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := &app.HistoryPage{TotalCount: len(s.records)}
	if offset < len(s.records) {
		end := offset + limit
		if end > len(s.records) {
			end = len(s.records)
		}
		page.History = append(page.History, s.records[offset:end]...)
	}
	return page, nil
}

func (s *stubHistoryAPI) DeleteHistory(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubHistoryAPI) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clrErr != nil {
		return s.clrErr
	}
	s.records = nil
	return nil
}

func stubRecords(n int) []app.HistoryRecord {
	recs := make([]app.HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		recs = append(recs, app.HistoryRecord{
			ID:           n - i,
			OriginalText: "some analyzed text",
			CreatedAt:    time.Now(),
		})
	}
	return recs
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func syncedPanel(t *testing.T, api app.HistoryAPI, limit int) HistoryPanel {
	t.Helper()
	engine := app.NewHistorySync(api, limit)
	p := NewHistoryPanel(engine, time.Second)
	msg := runCmd(t, p.Refresh())
	synced, ok := msg.(historySyncedMsg)
	if !ok {
		t.Fatalf("expected historySyncedMsg, got %T", msg)
	}
	p, _ = p.Update(synced)
	return p
}

func TestRefreshCapabilityProducesSnapshot(t *testing.T) {
	p := syncedPanel(t, &stubHistoryAPI{records: stubRecords(3)}, 20)
	if got := len(p.state.Items); got != 3 {
		t.Fatalf("panel state has %d items, want 3", got)
	}
	if p.state.Loading {
		t.Fatal("loading flag should be clear after the sync message")
	}
}

func TestEnterEmitsSelectedRecord(t *testing.T) {
	p := syncedPanel(t, &stubHistoryAPI{records: stubRecords(3)}, 20)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	sel, ok := msg.(recordSelectedMsg)
	if !ok {
		t.Fatalf("expected recordSelectedMsg, got %T", msg)
	}
	if sel.record.ID != p.state.Items[1].ID {
		t.Fatalf("selected id %d, cursor was on %d", sel.record.ID, p.state.Items[1].ID)
	}
}

func TestDeleteKeyRemovesSelectedRecord(t *testing.T) {
	api := &stubHistoryAPI{records: stubRecords(3)}
	p := syncedPanel(t, api, 20)
	target := p.state.Items[0].ID

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	msg := runCmd(t, cmd)
	synced, ok := msg.(historySyncedMsg)
	if !ok {
		t.Fatalf("expected historySyncedMsg, got %T", msg)
	}
	p, _ = p.Update(synced)

	if len(p.state.Items) != 2 {
		t.Fatalf("%d items after delete, want 2", len(p.state.Items))
	}
	for _, it := range p.state.Items {
		if it.ID == target {
			t.Fatalf("deleted id %d still listed", target)
		}
	}
}

func TestFailedDeleteShowsAlertAndKeepsItems(t *testing.T) {
	api := &stubHistoryAPI{records: stubRecords(3)}
	p := syncedPanel(t, api, 20)
	api.delErr = errors.New("server on fire")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	msg := runCmd(t, cmd)
	errMsg, ok := msg.(historyActionErrMsg)
	if !ok {
		t.Fatalf("expected historyActionErrMsg, got %T", msg)
	}
	p, _ = p.Update(errMsg)

	if p.alert == "" {
		t.Fatal("alert not set after failed delete")
	}
	if len(p.state.Items) != 3 {
		t.Fatalf("items changed after failed delete: %d", len(p.state.Items))
	}
}

func TestClearKeyEmptiesPanel(t *testing.T) {
	api := &stubHistoryAPI{records: stubRecords(4)}
	p := syncedPanel(t, api, 20)

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'C'}})
	msg := runCmd(t, cmd)
	synced, ok := msg.(historySyncedMsg)
	if !ok {
		t.Fatalf("expected historySyncedMsg, got %T", msg)
	}
	p, _ = p.Update(synced)

	if len(p.state.Items) != 0 || p.state.TotalCount != 0 {
		t.Fatalf("panel not empty after clear: %d items, total %d", len(p.state.Items), p.state.TotalCount)
	}
}

func TestWalkingPastEndLoadsNextPage(t *testing.T) {
	api := &stubHistoryAPI{records: stubRecords(30)}
	p := syncedPanel(t, api, 20)

	p.cursor = len(p.state.Items) - 1
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	msg := runCmd(t, cmd)
	synced, ok := msg.(historySyncedMsg)
	if !ok {
		t.Fatalf("expected historySyncedMsg, got %T", msg)
	}
	p, _ = p.Update(synced)

	if len(p.state.Items) != 30 {
		t.Fatalf("%d items after scroll-to-load, want 30", len(p.state.Items))
	}
}

func TestCursorClampedWhenListShrinks(t *testing.T) {
	api := &stubHistoryAPI{records: stubRecords(3)}
	p := syncedPanel(t, api, 20)
	p.cursor = 2

	api.mu.Lock()
	api.records = api.records[:1]
	api.mu.Unlock()

	msg := runCmd(t, p.Refresh())
	p, _ = p.Update(msg)
	if p.cursor != 0 {
		t.Fatalf("cursor = %d after shrink to one item", p.cursor)
	}
}
