// Package bed implements the care-bed position state machine: clamped
// three-axis movement, a movement lock, battery tracking, built-in and
// user-saved position presets, and change notifications for streaming
// the state to clients.
package bed
