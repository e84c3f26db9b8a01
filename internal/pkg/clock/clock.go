// Package clock is the engine's time source. Effect timing and combat lag
// read "now" through a Clock so tests can control it.
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-mud/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Millis returns t as milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Since returns the milliseconds elapsed between from and the clock's now.
func Since(c Clock, from time.Time) int64 {
	return c.Now().Sub(from).Milliseconds()
}
