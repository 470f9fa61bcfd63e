// Package machine implements the lifecycle statechart that drives a Game of
// Life session.
//
//	unrendered --Init--> rendering --(immediate)--> rendered
//	rendered = { paused, playing = { step } }
//
// Rows and column changes regenerate the grid through rendering and land in
// paused. Speed changes, randomizing and pattern loads go through the deep
// history pseudo-state, so a running simulation keeps running. Entering
// playing starts the clock; entering its step leaf advances one generation;
// leaving playing stops the clock.
//
// # Concurrency
//
// Events are processed one at a time behind a mutex. Every action applies its
// full state patch before the next one runs and the new mode is committed
// last. Timer ticks are tagged with the schedule that produced them and are
// dropped once that schedule has been cancelled, so stopping is final even if
// a tick was already in flight.
package machine
