package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"studydesk/internal/document"
	"studydesk/internal/reminder"
	"studydesk/internal/skills"
)

// deadlineLayouts are accepted in addition to RFC 3339. They carry no zone
// and are read in local time.
var deadlineLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

type ReminderInput struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Important   bool   `json:"important"`
}

// Completion is the outcome of closing a reminder.
type Completion struct {
	Entry         *reminder.HistoryEntry `json:"entry"`
	LearnedSkills []string               `json:"learnedSkills"`
}

func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid deadline %q", ErrValidation, s)
}

func (s *Service) ListReminders(ctx context.Context) []*reminder.Reminder {
	return s.store.Load(ctx).Reminders
}

func (s *Service) ListHistory(ctx context.Context) []*reminder.HistoryEntry {
	return s.store.Load(ctx).History
}

func (s *Service) CreateReminder(ctx context.Context, in ReminderInput) (*reminder.Reminder, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: reminder text is required", ErrValidation)
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	r := reminder.NewReminder(s.newID(), text, strings.TrimSpace(in.Description), deadline, s.now(), in.Important)
	_, err = s.store.Update(ctx, func(d *document.Document) error {
		d.Reminders = append(d.Reminders, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder created", zap.String("reminder_id", r.ID), zap.Time("deadline", r.Deadline))
	return r, nil
}

// UpdateReminderStatus closes a pending reminder as done or cancelled and
// moves it to history. Completing it teaches the skills found in its text.
func (s *Service) UpdateReminderStatus(ctx context.Context, id, status string) (*Completion, error) {
	st, err := reminder.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var out Completion
	_, err = s.store.Update(ctx, func(d *document.Document) error {
		r, i := d.FindReminder(id)
		if r == nil {
			return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
		}
		entry, err := r.Close(st, s.now())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		if st == reminder.StatusDone {
			names := skills.Extract(r.SkillText(), s.vocab)
			var added int
			d.LearnedSkills, added = skills.MergeLearned(d.LearnedSkills, names, entry.CompletedAt)
			s.metrics.SkillsLearned(added)
			out.LearnedSkills = names
		}
		d.History = append(d.History, entry)
		d.RemoveReminder(i)
		out.Entry = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder closed",
		zap.String("reminder_id", id),
		zap.String("status", string(st)),
		zap.Strings("skills", out.LearnedSkills))
	return &out, nil
}

func (s *Service) DeleteReminder(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		_, i := d.FindReminder(id)
		if i < 0 {
			return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
		}
		d.RemoveReminder(i)
		return nil
	})
	return err
}
