package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studydesk/internal/document"
	"studydesk/internal/timetable"
)

const dateLayout = "2006-01-02"

type AttendanceInput struct {
	SubjectID string `json:"subjectId"`
	// Date defaults to today.
	Date string `json:"date"`
}

func (s *Service) validateClass(c *timetable.Class) error {
	c.Day = strings.TrimSpace(c.Day)
	c.Subject = strings.TrimSpace(c.Subject)
	if !timetable.IsValidClassDay(c.Day) {
		return fmt.Errorf("%w: invalid day %q", ErrValidation, c.Day)
	}
	if !timetable.IsValidClockTime(c.Time) {
		return fmt.Errorf("%w: invalid time %q", ErrValidation, c.Time)
	}
	if c.Subject == "" {
		return fmt.Errorf("%w: class subject is required", ErrValidation)
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	return nil
}

// SaveSchedule replaces the whole timetable.
func (s *Service) SaveSchedule(ctx context.Context, classes []timetable.Class) ([]timetable.Class, error) {
	out := make([]timetable.Class, len(classes))
	copy(out, classes)
	for i := range out {
		if err := s.validateClass(&out[i]); err != nil {
			return nil, err
		}
	}
	timetable.SortClasses(out)

	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.Classes = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveClass adds a class or replaces the one with the same id.
func (s *Service) SaveClass(ctx context.Context, c timetable.Class) (timetable.Class, error) {
	if err := s.validateClass(&c); err != nil {
		return timetable.Class{}, err
	}
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.Classes = timetable.Upsert(d.Classes, c)
		timetable.SortClasses(d.Classes)
		return nil
	})
	if err != nil {
		return timetable.Class{}, err
	}
	return c, nil
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		var ok bool
		d.Classes, ok = timetable.RemoveClass(d.Classes, id)
		if !ok {
			return fmt.Errorf("class %s: %w", id, ErrNotFound)
		}
		return nil
	})
	return err
}

// SaveSubjects replaces the subject list.
func (s *Service) SaveSubjects(ctx context.Context, subjects []timetable.Subject) ([]timetable.Subject, error) {
	out := make([]timetable.Subject, 0, len(subjects))
	for _, sub := range subjects {
		sub.Name = strings.TrimSpace(sub.Name)
		if sub.Name == "" {
			return nil, fmt.Errorf("%w: subject name is required", ErrValidation)
		}
		if sub.ID == "" {
			sub.ID = s.newID()
		}
		out = append(out, sub)
	}
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.Subjects = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAttendance records one attended class for a known subject.
func (s *Service) MarkAttendance(ctx context.Context, in AttendanceInput) (timetable.AttendanceRecord, error) {
	now := s.now()
	date := now
	if in.Date != "" {
		var err error
		if date, err = time.ParseInLocation(dateLayout, in.Date, time.Local); err != nil {
			return timetable.AttendanceRecord{}, fmt.Errorf("%w: invalid date %q", ErrValidation, in.Date)
		}
	}

	var rec timetable.AttendanceRecord
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		subject, ok := timetable.FindSubject(d.Subjects, in.SubjectID)
		if !ok {
			return fmt.Errorf("subject %q: %w", in.SubjectID, ErrNotFound)
		}
		rec = timetable.AttendanceRecord{
			ID:          s.newID(),
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			Day:         date.Weekday().String(),
			Date:        date.Format(dateLayout),
			Timestamp:   now,
		}
		d.Attendance = append(d.Attendance, rec)
		return nil
	})
	if err != nil {
		return timetable.AttendanceRecord{}, err
	}
	return rec, nil
}

// SaveAttendance replaces the attendance log.
func (s *Service) SaveAttendance(ctx context.Context, records []timetable.AttendanceRecord) ([]timetable.AttendanceRecord, error) {
	out := make([]timetable.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if rec.SubjectID == "" {
			return nil, fmt.Errorf("%w: attendance subjectId is required", ErrValidation)
		}
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		out = append(out, rec)
	}
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.Attendance = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) AttendanceStats(ctx context.Context) timetable.AttendanceStats {
	d := s.store.Load(ctx)
	return timetable.Stats(d.Subjects, d.Attendance)
}
