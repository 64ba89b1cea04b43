package app

import (
	"context"
	"sync"
)

// HistoryAPI is the slice of the backend the sync engine needs. *Client
// satisfies it; tests swap in fakes.
type HistoryAPI interface {
	History(ctx context.Context, limit, offset int) (*HistoryPage, error)
	DeleteHistory(ctx context.Context, id int) error
	ClearHistory(ctx context.Context) error
}

// HistoryState is a point-in-time copy of the engine's list, safe for a
// renderer to hold across frames.
type HistoryState struct {
	Items      []HistoryRecord
	TotalCount int
	Offset     int
	Loading    bool
	Err        string
}

func (s HistoryState) HasMore() bool {
	return len(s.Items) < s.TotalCount
}

const DefaultPageSize = 20

// HistorySync keeps a partially loaded, ordered copy of the server-side
// history consistent across incremental loads, deletes and clears.
//
// One mutex guards the whole state. At most one page fetch is in flight at a
// time: LoadMore checks-and-sets the loading flag under the lock, so the
// offset it reads is always the value committed by the previous fetch and two
// overlapping LoadMore calls can never request the same page twice.
//
// Operations that supersede an in-flight fetch (Refresh, ClearAll) bump the
// generation counter; when the stale fetch resolves, its result is discarded
// instead of being applied over newer state. Last issued wins, regardless of
// which response arrives first.
type HistorySync struct {
	api   HistoryAPI
	limit int

	mu       sync.Mutex
	items    []HistoryRecord
	total    int
	offset   int
	gen      uint64
	inflight bool
	err      string
}

func NewHistorySync(api HistoryAPI, limit int) *HistorySync {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &HistorySync{api: api, limit: limit}
}

// Snapshot returns a copy of the current state.
func (h *HistorySync) Snapshot() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	items := make([]HistoryRecord, len(h.items))
	copy(items, h.items)
	return HistoryState{
		Items:      items,
		TotalCount: h.total,
		Offset:     h.offset,
		Loading:    h.inflight,
		Err:        h.err,
	}
}

// Refresh replaces the list wholesale with the first page. It is allowed
// while a LoadMore is outstanding and supersedes it. A failed refresh leaves
// the previous items visible and records the error.
func (h *HistorySync) Refresh(ctx context.Context) error {
	h.mu.Lock()
	h.gen++
	g := h.gen
	h.inflight = true
	h.err = ""
	limit := h.limit
	h.mu.Unlock()

	page, err := h.api.History(ctx, limit, 0)

	h.mu.Lock()
	defer h.mu.Unlock()
	if g != h.gen {
		// A newer operation owns the state now.
		return nil
	}
	h.inflight = false
	if err != nil {
		h.err = UserMessage(err)
		return err
	}
	h.items = append([]HistoryRecord(nil), page.History...)
	h.total = page.TotalCount
	h.offset = len(page.History)
	return nil
}

// LoadMore appends the next page. It is a no-op while a fetch is in flight or
// when everything is already loaded.
func (h *HistorySync) LoadMore(ctx context.Context) error {
	h.mu.Lock()
	if h.inflight || len(h.items) >= h.total {
		h.mu.Unlock()
		return nil
	}
	h.gen++
	g := h.gen
	h.inflight = true
	h.err = ""
	limit := h.limit
	offset := h.offset
	h.mu.Unlock()

	page, err := h.api.History(ctx, limit, offset)

	h.mu.Lock()
	defer h.mu.Unlock()
	if g != h.gen {
		return nil
	}
	h.inflight = false
	if err != nil {
		h.err = UserMessage(err)
		return err
	}
	seen := make(map[int]struct{}, len(h.items))
	for _, it := range h.items {
		seen[it.ID] = struct{}{}
	}
	for _, rec := range page.History {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		h.items = append(h.items, rec)
	}
	h.offset += len(page.History)
	return nil
}

// DeleteItem removes one record remote-first: local state changes only after
// the server acknowledged, so a failure needs no rollback and is returned to
// the caller. Deleting an id that is not in the local list is a local no-op.
func (h *HistorySync) DeleteItem(ctx context.Context, id int) error {
	if err := h.api.DeleteHistory(ctx, id); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, rec := range h.items {
		if rec.ID == id {
			h.items = append(h.items[:i:i], h.items[i+1:]...)
			if h.total > 0 {
				h.total--
			}
			// The server list shifted left by one; pull the cursor back so
			// the next page does not skip a record.
			if h.offset > 0 {
				h.offset--
			}
			break
		}
	}
	return nil
}

// ClearAll wipes the remote history, then the local list. It supersedes any
// in-flight fetch so a late page cannot resurrect cleared records.
func (h *HistorySync) ClearAll(ctx context.Context) error {
	if err := h.api.ClearHistory(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.inflight = false
	h.items = nil
	h.total = 0
	h.offset = 0
	h.err = ""
	return nil
}

// HasMore reports whether the server holds records not yet loaded.
func (h *HistorySync) HasMore() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items) < h.total
}

// Limit is the fixed page size.
func (h *HistorySync) Limit() int { return h.limit }
