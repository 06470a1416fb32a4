// Package document defines the single persisted document that holds all
// application state, and its migration from the legacy schema.
package document

import (
	"encoding/json"
	"fmt"

	"studydesk/internal/notify"
	"studydesk/internal/reminder"
	"studydesk/internal/skills"
	"studydesk/internal/timetable"
)

// SchemaVersion is the version written by this build.
const SchemaVersion = 2

type Document struct {
	SchemaVersion int                          `json:"schemaVersion"`
	Reminders     []*reminder.Reminder         `json:"reminders"`
	History       []*reminder.HistoryEntry     `json:"history"`
	ResumeSkills  []skills.Skill               `json:"resumeSkills"`
	LearnedSkills []skills.Skill               `json:"learnedSkills"`
	Classes       []timetable.Class            `json:"classes"`
	Subjects      []timetable.Subject          `json:"subjects"`
	Attendance    []timetable.AttendanceRecord `json:"attendance"`
	EmailConfig   *notify.EmailConfig          `json:"emailConfig"`
}

// New returns the empty default document.
func New() *Document {
	d := &Document{SchemaVersion: SchemaVersion}
	d.normalize()
	return d
}

// normalize replaces nil collections so the JSON form always carries arrays.
func (d *Document) normalize() {
	if d.Reminders == nil {
		d.Reminders = []*reminder.Reminder{}
	}
	if d.History == nil {
		d.History = []*reminder.HistoryEntry{}
	}
	if d.ResumeSkills == nil {
		d.ResumeSkills = []skills.Skill{}
	}
	if d.LearnedSkills == nil {
		d.LearnedSkills = []skills.Skill{}
	}
	if d.Classes == nil {
		d.Classes = []timetable.Class{}
	}
	if d.Subjects == nil {
		d.Subjects = []timetable.Subject{}
	}
	if d.Attendance == nil {
		d.Attendance = []timetable.AttendanceRecord{}
	}
	for _, r := range d.Reminders {
		if r.NotificationsSent == nil {
			r.NotificationsSent = []string{}
		}
		if r.Status == "" {
			r.Status = reminder.StatusPending
		}
	}
}

// Encode renders the document as indented JSON.
func Encode(d *Document) ([]byte, error) {
	d.normalize()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document in either schema. Empty input yields the
// default document. The second result reports whether a migration was applied.
func Decode(data []byte) (*Document, bool, error) {
	if len(data) == 0 {
		return New(), false, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("decoding document: %w", err)
	}
	if raw == nil {
		return New(), false, nil
	}

	migrated, err := migrate(raw)
	if err != nil {
		return nil, false, err
	}
	if migrated {
		if data, err = json.Marshal(raw); err != nil {
			return nil, false, fmt.Errorf("re-encoding migrated document: %w", err)
		}
	}

	d := &Document{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, false, fmt.Errorf("decoding document: %w", err)
	}
	d.SchemaVersion = SchemaVersion
	d.normalize()
	return d, migrated, nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("cloning document: %v", err))
	}
	out := &Document{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("cloning document: %v", err))
	}
	out.normalize()
	return out
}

// FindReminder returns the active reminder with the given id and its index.
func (d *Document) FindReminder(id string) (*reminder.Reminder, int) {
	for i, r := range d.Reminders {
		if r.ID == id {
			return r, i
		}
	}
	return nil, -1
}

// RemoveReminder drops the active reminder at index i, keeping insertion order.
func (d *Document) RemoveReminder(i int) {
	d.Reminders = append(d.Reminders[:i], d.Reminders[i+1:]...)
}

// PendingReminders counts active reminders still eligible for notifications.
func (d *Document) PendingReminders() int {
	n := 0
	for _, r := range d.Reminders {
		if r.IsPending() {
			n++
		}
	}
	return n
}
