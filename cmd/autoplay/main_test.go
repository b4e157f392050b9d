package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/box-puzzle/api"
	"github.com/wricardo/box-puzzle/game/config"
	"github.com/wricardo/box-puzzle/game/service"
	"github.com/wricardo/box-puzzle/game/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func TestPlayHint(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL)

	if _, err := c.CreateSession(ctx, "starter"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	state, err := PlayHint(ctx, c, Options{MaxMoves: 50})
	if err != nil {
		t.Fatalf("PlayHint failed: %v", err)
	}
	if !state.Solved {
		t.Fatal("Expected puzzle to be solved")
	}
	if state.Moves != 4 {
		t.Errorf("Expected a shortest solution of 4 moves, got %d", state.Moves)
	}
}

func TestPlayHint_GivesUp(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL)

	if _, err := c.CreateSession(ctx, "starter"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	state, err := PlayHint(ctx, c, Options{MaxMoves: 1})
	if err == nil || !strings.Contains(err.Error(), "gave up") {
		t.Fatalf("Expected to give up, got %v", err)
	}
	if state.Moves != 1 {
		t.Errorf("Expected one move before giving up, got %d", state.Moves)
	}
}

func TestPlayPlan(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL)

	info, err := c.CreateSession(ctx, "starter")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.Puzzle == nil {
		t.Fatal("Expected session to include the puzzle layout")
	}

	state, err := PlayPlan(ctx, c, info.Puzzle, Options{MaxMoves: 50})
	if err != nil {
		t.Fatalf("PlayPlan failed: %v", err)
	}
	if !state.Solved || state.Moves != 4 {
		t.Errorf("Expected solved in 4 moves, got solved=%v moves=%d", state.Solved, state.Moves)
	}
}

func TestPlayPlan_TooLong(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	c := NewClient(server.URL)

	info, err := c.CreateSession(ctx, "starter")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := PlayPlan(ctx, c, info.Puzzle, Options{MaxMoves: 2}); err == nil {
		t.Error("Expected error when the solution exceeds max moves")
	}
}

func TestRun(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	if err := run(ctx, NewClient(server.URL), "starter", "", Options{Strategy: "hint", MaxMoves: 50}); err != nil {
		t.Errorf("run with hint strategy failed: %v", err)
	}

	c := NewClient(server.URL)
	info, err := c.CreateSession(ctx, "starter")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := run(ctx, NewClient(server.URL), "", info.ID, Options{Strategy: "plan", MaxMoves: 50}); err != nil {
		t.Errorf("run continuing a session failed: %v", err)
	}

	if err := run(ctx, NewClient(server.URL), "starter", "", Options{Strategy: "random"}); err == nil {
		t.Error("Expected error for unknown strategy")
	}
	if err := run(ctx, NewClient(server.URL), "", "zzzz", Options{Strategy: "hint"}); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := newTestServer(t)
	c := NewClient(server.URL)

	_, err := c.CreateSession(context.Background(), "no-such-puzzle")
	if err == nil {
		t.Fatal("Expected error for unknown puzzle")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 in error, got %v", err)
	}
}
