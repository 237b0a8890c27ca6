// Package audio plays alarm tunes and completion sounds.
//
// Decoding is delegated to an external player binary such as paplay or
// afplay. Callers treat every error as non-fatal.
package audio
