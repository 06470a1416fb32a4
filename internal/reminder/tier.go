package reminder

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DeadlineTier is fired once the deadline itself has passed, whatever the policy.
const DeadlineTier = "100%"

// ErrInvalidWindow is returned when a reminder's deadline is not after its
// creation time, which leaves the elapsed fraction undefined.
var ErrInvalidWindow = errors.New("reminder deadline is not after its creation time")

// Policy is the escalation variant selected by a reminder's importance flag.
type Policy struct {
	Name       string
	Thresholds []int
}

var (
	ImportantPolicy = Policy{Name: "important", Thresholds: []int{50, 80, 95}}
	NormalPolicy    = Policy{Name: "normal", Thresholds: []int{50, 90}}
)

func PolicyFor(r *Reminder) Policy {
	if r.Important {
		return ImportantPolicy
	}
	return NormalPolicy
}

// TierLabel renders a threshold as the label stored in the sent-set.
func TierLabel(threshold int) string {
	return fmt.Sprintf("%d%%", threshold)
}

// Firing is a notification the monitor must deliver for a reminder.
type Firing struct {
	Tier    string
	Message string
}

// Evaluator decides which tiers of a reminder are due.
//
// Window is the width in percentage points of the band a threshold fires in.
// Zero fires a threshold once it has been crossed. A positive width restricts
// firing to [t, t+Window); a poll that jumps over the band skips the tier.
type Evaluator struct {
	Window float64
}

// Evaluate applies the default crossing evaluator.
func Evaluate(r *Reminder, now time.Time) ([]Firing, error) {
	return Evaluator{}.Evaluate(r, now)
}

// PercentPassed returns the elapsed share of the reminder's window, in percent.
func PercentPassed(r *Reminder, now time.Time) (float64, error) {
	total := r.Deadline.Sub(r.CreatedAt)
	if total <= 0 {
		return 0, fmt.Errorf("reminder %s: %w", r.ID, ErrInvalidWindow)
	}
	left := r.Deadline.Sub(now)
	return float64(total-left) / float64(total) * 100, nil
}

// Evaluate returns the firings due at now in firing order and records them in
// the reminder's sent-set. Tiers already sent are never returned again.
func (e Evaluator) Evaluate(r *Reminder, now time.Time) ([]Firing, error) {
	percent, err := PercentPassed(r, now)
	if err != nil {
		return nil, err
	}
	left := r.Deadline.Sub(now)

	var firings []Firing
	for _, threshold := range PolicyFor(r).Thresholds {
		label := TierLabel(threshold)
		if !e.reached(percent, threshold) || r.HasAlreadyFired(label) {
			continue
		}
		firings = append(firings, Firing{Tier: label, Message: tierMessage(threshold, left)})
		r.markFired(label)
	}

	if left <= 0 && !r.HasAlreadyFired(DeadlineTier) {
		firings = append(firings, Firing{Tier: DeadlineTier, Message: "Deadline reached!"})
		r.markFired(DeadlineTier)
	}
	return firings, nil
}

func (e Evaluator) reached(percent float64, threshold int) bool {
	t := float64(threshold)
	if percent < t {
		return false
	}
	return e.Window <= 0 || percent < t+e.Window
}

func tierMessage(threshold int, left time.Duration) string {
	if threshold >= 90 {
		return fmt.Sprintf("%d hour(s) left", HoursLeft(left))
	}
	return fmt.Sprintf("%d%% time passed", threshold)
}

// HoursLeft floors the remaining time to whole hours.
func HoursLeft(left time.Duration) int {
	return int(math.Floor(left.Hours()))
}
