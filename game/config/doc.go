// Package config provides the puzzle catalog of the box puzzle server.
//
// Puzzles come from two places: JSON files in the config directory and the
// built-in presets of package engine (princess, mother, boxes, colors and
// starter). A file named after a preset replaces it. Every layout is
// normalized and validated before it is cached, so a cached puzzle can
// always seed an engine.
//
// File Format:
//
//	{
//	  "name": "starter",
//	  "description": "two slides free the goal block",
//	  "variant": "blocks",
//	  "width": 4,
//	  "height": 5,
//	  "pieces": [{"id": "goal", "x": 1, "y": 0, "w": 2, "h": 2, "goal": true}, ...],
//	  "exit": {"x": 1, "y": 3, "match": "exact"},
//	  "messages": {"solved": "Solved in %d moves!"}
//	}
//
// Tile puzzles use "variant": "tiles" with a row-major "tiles" list instead of
// "pieces", and optionally "goal_category" with an "exit" region.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle, err := manager.LoadConfig("mother")
//	puzzles, err := manager.ListConfigs()
package config
