// Package sleep serves synthesized sleep-tracking history: fourteen
// daily samples and seven weekly aggregates, generated deterministically
// per calendar date, with configurable simulated latency and failures.
package sleep
