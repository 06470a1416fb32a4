package timetable

import (
	"sort"
	"strings"
	"time"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Class is one timetable slot. An empty Day means the class runs every day.
type Class struct {
	ID      string `json:"id"`
	Day     string `json:"day"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Room    string `json:"room,omitempty"`
}

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttendanceRecord struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	Day         string    `json:"day"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsValidWeekday accepts full English weekday names in any case.
func IsValidWeekday(day string) bool {
	return weekdayIndex(day) >= 0
}

// IsValidClassDay accepts a weekday or the empty daily marker.
func IsValidClassDay(day string) bool {
	return strings.TrimSpace(day) == "" || IsValidWeekday(day)
}

func weekdayIndex(day string) int {
	day = strings.ToLower(strings.TrimSpace(day))
	for i, valid := range weekdays {
		if day == valid {
			return i
		}
	}
	return -1
}

// IsValidClockTime accepts 24h "15:04" times.
func IsValidClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// SortClasses orders classes by weekday, then start time. Classes without a
// day sort after the week.
func SortClasses(classes []Class) {
	sort.SliceStable(classes, func(i, j int) bool {
		di, dj := dayKey(classes[i].Day), dayKey(classes[j].Day)
		if di != dj {
			return di < dj
		}
		return classes[i].Time < classes[j].Time
	})
}

func dayKey(day string) int {
	if i := weekdayIndex(day); i >= 0 {
		return i
	}
	return len(weekdays)
}

// Upsert replaces the class with the same id or appends it.
func Upsert(classes []Class, c Class) []Class {
	for i := range classes {
		if classes[i].ID == c.ID {
			classes[i] = c
			return classes
		}
	}
	return append(classes, c)
}

// RemoveClass drops the class with the given id and reports whether it existed.
func RemoveClass(classes []Class, id string) ([]Class, bool) {
	for i, c := range classes {
		if c.ID == id {
			return append(classes[:i], classes[i+1:]...), true
		}
	}
	return classes, false
}

func FindSubject(subjects []Subject, id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}
