package controller

import "time"

// Timer is the cancellation handle of a scheduled transition.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the burst delay and spray expiry
// without sleeping. Production uses the real clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
