package schedule

import (
	"time"

	"taptick/internal/refclock"
)

// Convergence tuning. These are the values both field deployments used;
// override the Waiter fields to experiment.
const (
	// PreTargetMargin is how much of the remaining wait the coarse sleep
	// leaves for the fine polling loop.
	PreTargetMargin = 5 * time.Second
	// FinalSleepThreshold is the remaining time below which the waiter
	// stops polling and sleeps the exact remainder once.
	FinalSleepThreshold = time.Second
	// PollInterval paces the fine loop's reference-clock samples.
	PollInterval = 500 * time.Millisecond
)

// Outcome reports how a wait ended.
type Outcome int

const (
	Completed Outcome = iota
	TooLate
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TooLate:
		return "too_late"
	default:
		return "unknown"
	}
}

// Waiter converges on a target instant in two phases: one coarse sleep to
// within Margin of the target, then a polling loop that re-samples the
// reference clock each interval and finishes with a single exact sleep of
// whatever remains. Zero-value tuning fields fall back to the package
// defaults; a nil Sleep uses time.Sleep.
type Waiter struct {
	Clock refclock.Clock
	Sleep func(time.Duration)

	Margin         time.Duration
	FinalThreshold time.Duration
	Poll           time.Duration

	// OnCoarse and OnPoll observe progress; either may be nil.
	OnCoarse func(d time.Duration)
	OnPoll   func(remaining time.Duration)
}

// Wait blocks until target. TooLate is returned, without any sleeping,
// when the target was already in the past at the first sample; a start at
// exactly the target completes immediately. Every fine-loop iteration is a
// fresh reference-clock sample, so late clock drift is absorbed.
func (w *Waiter) Wait(target time.Time) Outcome {
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	remaining := target.Sub(w.Clock.Now().Time)
	if remaining < 0 {
		return TooLate
	}

	if coarse := remaining - w.margin(); coarse > 0 {
		if w.OnCoarse != nil {
			w.OnCoarse(coarse)
		}
		sleep(coarse)
	}

	for {
		remaining = target.Sub(w.Clock.Now().Time)
		switch {
		case remaining <= 0:
			return Completed
		case remaining < w.finalThreshold():
			sleep(remaining)
			return Completed
		default:
			if w.OnPoll != nil {
				w.OnPoll(remaining)
			}
			sleep(w.poll())
		}
	}
}

func (w *Waiter) margin() time.Duration {
	if w.Margin > 0 {
		return w.Margin
	}
	return PreTargetMargin
}

func (w *Waiter) finalThreshold() time.Duration {
	if w.FinalThreshold > 0 {
		return w.FinalThreshold
	}
	return FinalSleepThreshold
}

func (w *Waiter) poll() time.Duration {
	if w.Poll > 0 {
		return w.Poll
	}
	return PollInterval
}
