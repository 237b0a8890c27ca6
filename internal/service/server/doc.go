// Package server runs the headless clock daemon.
//
// The daemon owns one event loop, one shell and one gRPC server. Alarm
// commands from the CLI reach the shell through the ClockService API, and
// a PID file checked against the live process table keeps a second daemon
// from starting.
package server
