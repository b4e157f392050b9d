package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/box-puzzle/game/engine"
)

// fakeClock hands out times that only move when told to
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

func starter(t *testing.T) *engine.PuzzleConfig {
	t.Helper()
	cfg, err := engine.Preset("starter")
	if err != nil {
		t.Fatalf("starter preset: %v", err)
	}
	return cfg
}

func TestCreate_IDs(t *testing.T) {
	m := NewManager()
	cfg := starter(t)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"custom id", "race-1", nil},
		{"duplicate", "race-1", ErrSessionAlreadyExists},
		{"duplicate differs only in case", "RACE-1", ErrSessionAlreadyExists},
		{"space", "my game", ErrInvalidSessionID},
		{"slash", "a/b", ErrInvalidSessionID},
		{"query", "a?b", ErrInvalidSessionID},
		{"fragment", "a#b", ErrInvalidSessionID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := m.Create(tt.id, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sess.ID != tt.id {
				t.Errorf("expected id %q, got %q", tt.id, sess.ID)
			}
		})
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 stored session, got %d", m.Count())
	}
}

func TestCreate_GeneratedIDs(t *testing.T) {
	m := NewManager()
	cfg := starter(t)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		sess, err := m.Create("", cfg)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if len(sess.ID) != 2*idBytes {
			t.Fatalf("expected %d hex chars, got %q", 2*idBytes, sess.ID)
		}
		for _, r := range sess.ID {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				t.Fatalf("id %q is not lower-case hex", sess.ID)
			}
		}
		if seen[sess.ID] {
			t.Fatalf("id %q generated twice", sess.ID)
		}
		seen[sess.ID] = true
	}
}

func TestCreate_RejectsBrokenLayout(t *testing.T) {
	m := NewManager()
	cfg := starter(t)
	cfg.Pieces = append(cfg.Pieces, engine.Piece{ID: "X", X: 1, Y: 0, W: 1, H: 1})

	if _, err := m.Create("broken", cfg); !errors.Is(err, engine.ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout for overlapping pieces, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("a rejected layout must not leave a session behind")
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	m := NewManager()
	created, err := m.Create("Lobby", starter(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"Lobby", "lobby", "LOBBY"} {
		got, err := m.Get(id)
		if err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}
		if got != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
	}
	if got, _ := m.Get("Lobby"); got.ID != "Lobby" {
		t.Errorf("expected original spelling to be kept, got %q", got.ID)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessions_HaveIndependentEngines(t *testing.T) {
	m := NewManager()
	cfg := starter(t)
	a, _ := m.Create("a", cfg)
	b, _ := m.Create("b", cfg)

	if out := a.Engine.Slide("D", engine.Left); !out.Applied {
		t.Fatalf("expected D to slide left, got %s", out.Reason)
	}
	if a.Engine.State().Moves != 1 {
		t.Errorf("expected 1 move in a, got %d", a.Engine.State().Moves)
	}
	if b.Engine.State().Moves != 0 {
		t.Errorf("moves in a leaked into b")
	}
	if a.Engine.Key() == b.Engine.Key() {
		t.Errorf("boards should differ after a move in one session")
	}

	// the caller's config is not shared with any engine
	cfg.Pieces[0].X = 3
	if got := b.Config.Pieces[0].X; got != 1 {
		t.Errorf("session config changed with caller config: x=%d", got)
	}
}

func TestList_OldestFirst(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	cfg := starter(t)

	for _, id := range []string{"c", "a", "b"} {
		if _, err := m.Create(id, cfg); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Second)
	}
	// same instant: ties break on id
	m.Create("z", cfg)
	m.Create("y", cfg)

	want := []string{"c", "a", "b", "y", "z"}
	got := m.List()
	if len(got) != len(want) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(got))
	}
	for i, sess := range got {
		if sess.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], sess.ID)
		}
	}
}

func TestDelete(t *testing.T) {
	m := NewManager()
	m.Create("gone", starter(t))

	if err := m.Delete("GONE"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected session to be gone, got %v", err)
	}
	if err := m.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second delete: expected ErrSessionNotFound, got %v", err)
	}
	// the id is free again
	if _, err := m.Create("gone", starter(t)); err != nil {
		t.Errorf("recreate: %v", err)
	}
}

func TestTouchAndExpire(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(WithClock(clock.Now))
	cfg := starter(t)

	m.Create("idle", cfg)
	m.Create("busy", cfg)
	m.Create("other", cfg)

	clock.Advance(50 * time.Minute)
	if err := m.Touch("busy"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	busy, _ := m.Get("busy")
	if !busy.LastAccessedAt.Equal(clock.Now()) {
		t.Errorf("touch did not update last access")
	}
	if !busy.CreatedAt.Before(busy.LastAccessedAt) {
		t.Errorf("touch must not move creation time")
	}

	clock.Advance(20 * time.Minute)
	removed := m.Expire(time.Hour)
	if fmt.Sprint(removed) != "[idle other]" {
		t.Errorf("expected [idle other] to expire, got %v", removed)
	}
	if m.Count() != 1 {
		t.Errorf("expected busy to survive, %d sessions left", m.Count())
	}
	if removed := m.Expire(time.Hour); len(removed) != 0 {
		t.Errorf("nothing else is stale, removed %v", removed)
	}
	if err := m.Touch("idle"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("touching an expired session: expected ErrSessionNotFound, got %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	m := NewManager()
	cfg := starter(t)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := m.Create("", cfg)
			if err != nil {
				errs <- err
				return
			}
			for j := 0; j < 10; j++ {
				m.Touch(sess.ID)
				m.List()
				if _, err := m.Get(sess.ID); err != nil {
					errs <- err
					return
				}
			}
			if i%2 == 0 {
				if err := m.Delete(sess.ID); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if m.Count() != workers/2 {
		t.Errorf("expected %d sessions, got %d", workers/2, m.Count())
	}
}
