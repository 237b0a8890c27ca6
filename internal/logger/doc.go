// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - key-value helpers (InfoKV, WarnKV, ErrorKV) bound to the context logger.
//
// The clock shell, the gRPC daemon and the terminal UI accept a context and
// extract the logger from it. When the terminal UI owns the screen, the
// global logger is swapped for a file-backed one created by OpenFile.
package logger
