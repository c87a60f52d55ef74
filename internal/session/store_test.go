package session

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_CreateAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	latest, err := s.LatestSessionID(ctx, "ava")
	if err != nil {
		t.Fatalf("LatestSessionID failed: %v", err)
	}
	if latest != "" {
		t.Errorf("expected no session for new user, got %q", latest)
	}

	id, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	latest, err = s.LatestSessionID(ctx, "ava")
	if err != nil {
		t.Fatalf("LatestSessionID failed: %v", err)
	}
	if latest != id {
		t.Errorf("latest = %q, want %q", latest, id)
	}
}

func TestStore_LatestIsolatedPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	avaID, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := s.CreateSession(ctx, "ben"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	latest, err := s.LatestSessionID(ctx, "ava")
	if err != nil {
		t.Fatalf("LatestSessionID failed: %v", err)
	}
	if latest != avaID {
		t.Errorf("another user's session leaked: %q", latest)
	}
}

func TestStore_TurnsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	exchanges := [][2]string{
		{"NVDA price?", "NVDA trades at 121."},
		{"and AMD?", "AMD trades at 160."},
	}
	for _, e := range exchanges {
		if err := s.AppendTurn(ctx, id, e[0], e[1]); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := s.Turns(ctx, id)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	for i, e := range exchanges {
		if turns[i].Query != e[0] || turns[i].Response != e[1] {
			t.Errorf("turn %d = %+v", i, turns[i])
		}
	}
	if turns[0].CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestStore_SessionIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	second, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.AppendTurn(ctx, first, "q", "r"); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	ids, err := s.SessionIDs(ctx, "ava")
	if err != nil {
		t.Fatalf("SessionIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}
	found := map[string]bool{ids[0]: true, ids[1]: true}
	if !found[first] || !found[second] {
		t.Errorf("ids = %v, want both %q and %q", ids, first, second)
	}
}

func TestStore_TurnsEmptySession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "ava")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	turns, err := s.Turns(ctx, id)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty turn log, got %v", turns)
	}
}
