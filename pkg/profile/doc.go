// ABOUTME: Package profile measures transform latency in counter cycles
// ABOUTME: Median of repeated trials minus the median cost of an empty lap
// Package profile estimates how many cycles a transform takes.
//
// Each measurement runs a number of empty laps to estimate the fixed cost of reading the
// counter, then the same number of timed invocations. The result is the median invocation
// minus the median empty lap, which ignores a minority of interrupted trials.
package profile
