package reminder

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// ErrInvalidStatus is returned when a reminder is moved to a status that
// does not close it.
var ErrInvalidStatus = errors.New("invalid reminder status")

// ParseStatus validates a status coming from a caller.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusDone, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type Reminder struct {
	ID                string    `json:"id"`
	Text              string    `json:"text"`
	Description       string    `json:"description,omitempty"`
	Deadline          time.Time `json:"deadline"`
	CreatedAt         time.Time `json:"createdAt"`
	Important         bool      `json:"important"`
	Status            Status    `json:"status"`
	NotificationsSent []string  `json:"notificationsSent"`
}

// HistoryEntry is a closed reminder as kept in the append-only history log.
type HistoryEntry struct {
	Reminder
	CompletedAt time.Time `json:"completedAt"`
}

func NewReminder(id, text, description string, deadline, createdAt time.Time, important bool) *Reminder {
	return &Reminder{
		ID:                id,
		Text:              text,
		Description:       description,
		Deadline:          deadline,
		CreatedAt:         createdAt,
		Important:         important,
		Status:            StatusPending,
		NotificationsSent: []string{},
	}
}

// HasAlreadyFired reports whether the tier label is in the sent-set.
func (r *Reminder) HasAlreadyFired(tier string) bool {
	for _, sent := range r.NotificationsSent {
		if sent == tier {
			return true
		}
	}
	return false
}

func (r *Reminder) markFired(tier string) {
	if r.HasAlreadyFired(tier) {
		return
	}
	r.NotificationsSent = append(r.NotificationsSent, tier)
}

// IsPending reports whether the reminder is still eligible for deadline checks.
func (r *Reminder) IsPending() bool {
	return r.Status == "" || r.Status == StatusPending
}

// Close moves the reminder to a terminal status and returns the history
// entry that records it.
func (r *Reminder) Close(status Status, at time.Time) (*HistoryEntry, error) {
	if status != StatusDone && status != StatusCancelled {
		return nil, fmt.Errorf("%w: cannot close reminder as %q", ErrInvalidStatus, status)
	}
	r.Status = status
	entry := &HistoryEntry{Reminder: *r, CompletedAt: at}
	entry.NotificationsSent = append([]string(nil), r.NotificationsSent...)
	return entry, nil
}

// SkillText is the free text skills are extracted from when the reminder completes.
func (r *Reminder) SkillText() string {
	if r.Description == "" {
		return r.Text
	}
	return r.Text + "\n" + r.Description
}
