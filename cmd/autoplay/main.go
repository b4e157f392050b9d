// Command autoplay drives a puzzle session over the REST API until the goal
// is reached. Two strategies are available:
//
//	hint - ask the server for the next step of a shortest solution every move
//	plan - solve the starting layout locally and send the moves as bulk moves
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/service"
	"github.com/wricardo/box-puzzle/game/solver"
)

// Client talks to one session of a running server
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session and remembers its ID
func (c *Client) CreateSession(ctx context.Context, puzzleID string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if puzzleID != "" {
		body["puzzle_id"] = puzzleID
	}

	var info service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

// Continue attaches the client to an existing session
func (c *Client) Continue(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	c.sessionID = sessionID
	var info service.SessionInfo
	if err := c.do(ctx, "GET", c.sessionPath(""), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, "GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Hint(ctx context.Context) (*service.HintResult, error) {
	var hint service.HintResult
	if err := c.do(ctx, "GET", c.sessionPath("/hint"), nil, &hint); err != nil {
		return nil, err
	}
	return &hint, nil
}

// Move applies one unit move; a rejected move is an error
func (c *Client) Move(ctx context.Context, step engine.Step) (*engine.GameState, error) {
	body := map[string]string{"ref": step.Ref, "direction": string(step.Direction)}
	var result service.MoveResult
	if err := c.do(ctx, "POST", c.sessionPath("/move"), body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return result.GameState, fmt.Errorf("move %s %s rejected: %s", step.Ref, step.Direction, result.Outcome.Reason)
	}
	return result.GameState, nil
}

// BulkMove sends steps in one request; it stops at the first rejection
func (c *Client) BulkMove(ctx context.Context, steps []engine.Step) (*service.BulkMoveResult, error) {
	moves := make([]service.MoveRequest, len(steps))
	for i, s := range steps {
		moves[i] = service.MoveRequest{Ref: s.Ref, Direction: string(s.Direction)}
	}

	var result service.BulkMoveResult
	if err := c.do(ctx, "POST", c.sessionPath("/bulk-move"), map[string]interface{}{"moves": moves}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, "POST", c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

// Options configures a play run
type Options struct {
	Strategy string
	MaxMoves int
	Limit    int
	Delay    time.Duration
	Verbose  bool
}

// PlayHint asks the server for the next step until solved or maxMoves
func PlayHint(ctx context.Context, c *Client, opts Options) (*engine.GameState, error) {
	state, err := c.GetState(ctx)
	if err != nil {
		return nil, err
	}

	for moves := 0; !state.Solved; moves++ {
		if moves >= opts.MaxMoves {
			return state, fmt.Errorf("gave up after %d moves", moves)
		}

		hint, err := c.Hint(ctx)
		if err != nil {
			return state, err
		}
		if hint.Step == nil {
			return state, errors.New(hint.Message)
		}

		state, err = c.Move(ctx, *hint.Step)
		if err != nil {
			return state, err
		}
		if opts.Verbose {
			log.WithFields(log.Fields{
				"move":      state.Moves,
				"ref":       hint.Step.Ref,
				"direction": hint.Step.Direction,
				"remaining": hint.SolutionLength - 1,
			}).Info("move")
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}
	return state, nil
}

// PlayPlan resets the session, solves the starting layout locally and sends
// the solution in bulk moves of at most engine.MaxBulkMoves
func PlayPlan(ctx context.Context, c *Client, puzzle *engine.PuzzleConfig, opts Options) (*engine.GameState, error) {
	if puzzle == nil {
		return nil, errors.New("session has no puzzle layout to plan from")
	}

	e, err := engine.NewEngine(puzzle)
	if err != nil {
		return nil, err
	}
	sol, err := solver.Solve(e, opts.Limit)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"moves": len(sol.Steps), "explored": sol.Explored}).Info("solution planned")
	if len(sol.Steps) > opts.MaxMoves {
		return nil, fmt.Errorf("solution needs %d moves, more than the limit of %d", len(sol.Steps), opts.MaxMoves)
	}

	state, err := c.Reset(ctx)
	if err != nil {
		return nil, err
	}

	for start := 0; start < len(sol.Steps); start += engine.MaxBulkMoves {
		end := min(start+engine.MaxBulkMoves, len(sol.Steps))
		result, err := c.BulkMove(ctx, sol.Steps[start:end])
		if err != nil {
			return state, err
		}
		state = result.GameState
		if result.MovesExecuted != end-start {
			return state, fmt.Errorf("bulk move stopped on move %d: %s", start+result.StoppedOnMove, result.StoppedReason)
		}
		if opts.Verbose {
			log.WithFields(log.Fields{"sent": end - start, "total": state.Moves}).Info("bulk move")
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}
	return state, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Solve a puzzle session through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Puzzle server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "puzzle", Usage: "Puzzle to play (default: server default)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "strategy", Value: "hint", Usage: "hint or plan"},
			&cli.IntFlag{Name: "max-moves", Value: 1000, Usage: "Maximum moves before giving up"},
			&cli.IntFlag{Name: "limit", Value: solver.DefaultLimit, Usage: "Positions the local solver may expand (plan strategy)"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between requests"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every move"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := Options{
				Strategy: cmd.String("strategy"),
				MaxMoves: cmd.Int("max-moves"),
				Limit:    cmd.Int("limit"),
				Delay:    cmd.Duration("delay"),
				Verbose:  cmd.Bool("verbose"),
			}
			return run(ctx, NewClient(cmd.String("url")), cmd.String("puzzle"), cmd.String("continue"), opts)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("autoplay failed")
	}
}

func run(ctx context.Context, c *Client, puzzleID, sessionID string, opts Options) error {
	var info *service.SessionInfo
	var err error
	if sessionID != "" {
		info, err = c.Continue(ctx, sessionID)
	} else {
		info, err = c.CreateSession(ctx, puzzleID)
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"session": info.ID, "puzzle": info.PuzzleID, "strategy": opts.Strategy}).Info("playing")

	var state *engine.GameState
	switch opts.Strategy {
	case "hint":
		state, err = PlayHint(ctx, c, opts)
	case "plan":
		state, err = PlayPlan(ctx, c, info.Puzzle, opts)
	default:
		return fmt.Errorf("unknown strategy %q", opts.Strategy)
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"session": info.ID, "moves": state.Moves}).Info(state.Message)
	return nil
}
