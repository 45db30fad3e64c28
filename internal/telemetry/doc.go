// ABOUTME: Package documentation for telemetry
// ABOUTME: Describes status snapshots, the event recorder, and the websocket server

// Package telemetry exposes a running pipeline to observers.
//
// A Source turns controller counters, buffer roles, and LED levels into a Status.
// Server pushes Status values to websocket clients at /telemetry and answers
// single requests at /status.
package telemetry
