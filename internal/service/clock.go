package service

import "time"

// Clock supplies the current time to the quota engine and transaction
// service. Injected so tests can pin "now" instead of patching a global.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
