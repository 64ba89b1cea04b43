package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	client := NewClient(srv.URL, 5*time.Second, session, NewLogger(io.Discard))
	return client, session
}

func TestBearerTokenReadAtCallTime(t *testing.T) {
	var gotAuth []string
	client, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(HistoryPage{})
	}))

	ctx := context.Background()
	if _, err := client.History(ctx, 20, 0); err != nil {
		t.Fatalf("history: %v", err)
	}
	if err := session.Login("tok-abc"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := client.History(ctx, 20, 0); err != nil {
		t.Fatalf("history: %v", err)
	}
	if err := session.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := client.History(ctx, 20, 0); err != nil {
		t.Fatalf("history: %v", err)
	}

	want := []string{"", "Bearer tok-abc", ""}
	for i := range want {
		if gotAuth[i] != want[i] {
			t.Fatalf("request %d: Authorization = %q, want %q", i, gotAuth[i], want[i])
		}
	}
}

func TestRequestIDAttachedToEveryRequest(t *testing.T) {
	var ids []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode(HistoryPage{})
	}))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.History(ctx, 20, 0); err != nil {
			t.Fatalf("history: %v", err)
		}
	}
	if ids[0] == "" || ids[1] == "" || ids[0] == ids[1] {
		t.Fatalf("request ids should be unique and non-empty, got %q and %q", ids[0], ids[1])
	}
}

func TestServerErrorCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Text cannot be empty"}`))
	}))

	_, err := client.Analyze(context.Background(), "whatever")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != 400 || apiErr.Detail != "Text cannot be empty" {
		t.Fatalf("got status %d detail %q", apiErr.Status, apiErr.Detail)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	session := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	client := NewClient("http://127.0.0.1:1", time.Second, session, NewLogger(io.Discard))

	_, err := client.History(context.Background(), 20, 0)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("want *NetworkError, got %v", err)
	}
}

func TestHistoryQueryParameters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/history" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want 20", got)
		}
		if got := r.URL.Query().Get("offset"); got != "40" {
			t.Errorf("offset = %q, want 40", got)
		}
		_ = json.NewEncoder(w).Encode(HistoryPage{TotalCount: 45})
	}))

	page, err := client.History(context.Background(), 20, 40)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.TotalCount != 45 {
		t.Fatalf("total = %d, want 45", page.TotalCount)
	}
}

func TestDeleteHistoryTargetsRecordPath(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/chat/history/42" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	}))
	if err := client.DeleteHistory(context.Background(), 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestHistorySyncOverHTTP(t *testing.T) {
	records := makeRecords(45)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		page := HistoryPage{TotalCount: len(records)}
		if offset < len(records) {
			end := offset + limit
			if end > len(records) {
				end = len(records)
			}
			page.History = records[offset:end]
		}
		_ = json.NewEncoder(w).Encode(page)
	}))

	h := NewHistorySync(client, 20)
	mustRefresh(t, h)
	mustLoadMore(t, h)
	mustLoadMore(t, h)

	st := h.Snapshot()
	if len(st.Items) != 45 || st.HasMore() {
		t.Fatalf("over HTTP: %d items, hasMore=%v", len(st.Items), st.HasMore())
	}
	assertIDsUnique(t, st.Items)
}

func TestLoginReturnsAccessToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if creds.Email != "a@b.c" {
			t.Errorf("email = %q", creds.Email)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-xyz"}`))
	}))

	tok, err := client.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok != "tok-xyz" {
		t.Fatalf("token = %q", tok)
	}
}
