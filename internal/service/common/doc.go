// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the clock daemon with call
// timeouts, and utilities to detect the current system actor
// (hostname/username) which travels with every call as request metadata
// so the daemon can log who changed an alarm.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
