// Package reactor is the single-threaded host loop that serializes timers,
// event deliveries and animation completions for the effect.
package reactor
