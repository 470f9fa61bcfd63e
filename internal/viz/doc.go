// Package viz is the terminal renderer for the lifecycle machine.
//
// A [Model] subscribes to machine snapshots and draws the board, a stats pane
// with a population chart, and a help overlay. Keys and mouse clicks are
// turned into machine events; the model never mutates the board itself.
//
// Boards that do not fit the terminal are drawn on a braille [Canvas], two
// columns by four rows of cells per glyph.
//
// # Key Bindings
//
//	Space  - Start/Stop
//	R      - Randomize
//	N      - Single step while paused
//	+/-    - Speed
//	[ ]    - Rows
//	{ }    - Columns
//	Enter  - Toggle the cell under the cursor
//	S      - Save session
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
