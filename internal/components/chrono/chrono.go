package chrono

import "time"

// API is the clock components read the time from, tests swap it for a fixed one.
type API interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FixedImpl always reports the same time, each call to Since advances it by Step.
type FixedImpl struct {
	Time time.Time
	Step time.Duration
}

func (f *FixedImpl) Now() time.Time {
	return f.Time
}

func (f *FixedImpl) Since(t time.Time) time.Duration {
	f.Time = f.Time.Add(f.Step)
	return f.Time.Sub(t)
}
