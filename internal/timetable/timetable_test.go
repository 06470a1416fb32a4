package timetable

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestIsValidWeekday(t *testing.T) {
	tests := []struct {
		day  string
		want bool
	}{
		{"monday", true},
		{"Friday", true},
		{" SUNDAY ", true},
		{"mon", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidWeekday(tt.day); got != tt.want {
			t.Errorf("IsValidWeekday(%q) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestIsValidClassDay(t *testing.T) {
	for day, want := range map[string]bool{"": true, "  ": true, "Tuesday": true, "Someday": false} {
		if got := IsValidClassDay(day); got != want {
			t.Errorf("IsValidClassDay(%q) = %v, want %v", day, got, want)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	if !IsValidClockTime("08:30") || !IsValidClockTime("23:59") {
		t.Error("expected valid clock times")
	}
	if IsValidClockTime("8am") || IsValidClockTime("25:00") {
		t.Error("expected invalid clock times")
	}
}

func TestSortClasses(t *testing.T) {
	classes := []Class{
		{ID: "c1", Day: "Wednesday", Time: "09:00", Subject: "Physics"},
		{ID: "c2", Day: "monday", Time: "13:00", Subject: "Maths"},
		{ID: "c3", Day: "", Time: "07:00", Subject: "Gym"},
		{ID: "c4", Day: "Monday", Time: "08:00", Subject: "Chemistry"},
	}
	SortClasses(classes)

	var order []string
	for _, c := range classes {
		order = append(order, c.ID)
	}
	if want := []string{"c4", "c2", "c1", "c3"}; !reflect.DeepEqual(order, want) {
		t.Errorf("SortClasses order = %v, want %v", order, want)
	}
}

func TestUpsertAndRemoveClass(t *testing.T) {
	classes := Upsert(nil, Class{ID: "c1", Day: "monday", Time: "08:00", Subject: "Maths"})
	classes = Upsert(classes, Class{ID: "c1", Day: "monday", Time: "09:00", Subject: "Maths"})
	if len(classes) != 1 || classes[0].Time != "09:00" {
		t.Fatalf("Upsert did not replace: %+v", classes)
	}
	classes, ok := RemoveClass(classes, "c1")
	if !ok || len(classes) != 0 {
		t.Errorf("RemoveClass: ok=%v classes=%+v", ok, classes)
	}
	if _, ok := RemoveClass(classes, "c1"); ok {
		t.Error("RemoveClass of missing id reported success")
	}
}

func TestStats(t *testing.T) {
	subjects := []Subject{{ID: "s1", Name: "Maths"}, {ID: "s2", Name: "Physics"}, {ID: "s3", Name: "Art"}}
	var records []AttendanceRecord
	for i := 0; i < 12; i++ {
		subject := subjects[i%2]
		records = append(records, AttendanceRecord{
			ID:          fmt.Sprintf("a%d", i),
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			Day:         "monday",
			Date:        "2025-03-03",
			Timestamp:   time.Date(2025, 3, 3, 8, i, 0, 0, time.UTC),
		})
	}

	stats := Stats(subjects, records)
	want := []SubjectStat{
		{SubjectID: "s1", SubjectName: "Maths", Attended: 6},
		{SubjectID: "s2", SubjectName: "Physics", Attended: 6},
		{SubjectID: "s3", SubjectName: "Art", Attended: 0},
	}
	if !reflect.DeepEqual(stats.Subjects, want) {
		t.Errorf("Stats subjects = %+v, want %+v", stats.Subjects, want)
	}
	if len(stats.Recent) != RecentLimit {
		t.Fatalf("Recent length = %d, want %d", len(stats.Recent), RecentLimit)
	}
	if stats.Recent[0].ID != "a11" || stats.Recent[RecentLimit-1].ID != "a2" {
		t.Errorf("Recent not newest first: first=%s last=%s", stats.Recent[0].ID, stats.Recent[RecentLimit-1].ID)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil, nil)
	if len(stats.Subjects) != 0 || len(stats.Recent) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
