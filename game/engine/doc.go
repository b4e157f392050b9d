// Package engine provides the core logic of the box puzzle.
//
// A puzzle is a fixed W×H board. Two variants share one Engine contract:
//   - blocks: a literal list of rectangular pieces, one of which is the goal
//     piece that has to reach the exit
//   - tiles: a grid of unit cells tagged "<category>_<suffix>" plus one or
//     more "empty" cells; 4-connected tiles of the same category form a group
//     that moves as a unit
//
// Core Types:
//
// PuzzleConfig is the literal starting layout, loaded from JSON or taken from
// the built-in presets. NewEngine validates it and returns a BlockEngine or a
// TileEngine. GameState is a deep snapshot; MoveOutcome reports every move
// request, including rejected ones. A rejected move is an outcome, not an
// error, and leaves the engine untouched.
//
// Usage:
//
//	config, err := engine.Preset("starter")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	e, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	e.Slide("D", engine.Left)
//	out := e.Slide("goal", engine.Down)
//	fmt.Println(out.Solved, e.Moves())
//
// Engines are not safe for concurrent use; the service layer serializes
// requests.
package engine
