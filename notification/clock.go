package notification

import "time"

// Clock supplies the current instant. It is injected so the time-window logic
// can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock
func SystemClock() Clock { return systemClock{} }
