// Package core implements the keyspace and the four value engines
// (string, trie, heap, FTS) that back rhino-rox.
package core

import "errors"

// ErrWrongType is returned when a command addresses a key whose stored
// value does not match the command's expected container kind.
var ErrWrongType = errors.New("WRONGTYPE operation against a key holding the wrong kind of value")
