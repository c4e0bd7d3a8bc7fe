// Package loadstate tracks the lifecycle of one asynchronous fetch kind and
// fans state snapshots out to subscribers.
package loadstate

//go:generate go tool stringer -type=Status -linecomment -output=status_string.go

// Status is the lifecycle position of one fetch kind.
type Status int

const (
	StatusIdle    Status = iota // idle
	StatusLoading               // loading
	StatusSuccess               // success
	StatusError                 // error
)
