package timetable

// RecentLimit is how many attendance records the statistics view returns.
const RecentLimit = 10

type SubjectStat struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Attended    int    `json:"attended"`
}

type AttendanceStats struct {
	Subjects []SubjectStat      `json:"subjects"`
	Recent   []AttendanceRecord `json:"recent"`
}

// Stats counts attended classes per subject, in subject order, and lists the
// most recent records newest first.
func Stats(subjects []Subject, records []AttendanceRecord) AttendanceStats {
	counts := make(map[string]int, len(subjects))
	for _, r := range records {
		counts[r.SubjectID]++
	}

	stats := AttendanceStats{
		Subjects: make([]SubjectStat, 0, len(subjects)),
		Recent:   make([]AttendanceRecord, 0, RecentLimit),
	}
	for _, s := range subjects {
		stats.Subjects = append(stats.Subjects, SubjectStat{
			SubjectID:   s.ID,
			SubjectName: s.Name,
			Attended:    counts[s.ID],
		})
	}
	for i := len(records) - 1; i >= 0 && len(stats.Recent) < RecentLimit; i-- {
		stats.Recent = append(stats.Recent, records[i])
	}
	return stats
}
