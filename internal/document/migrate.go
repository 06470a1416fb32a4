package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"studydesk/internal/skills"
	"studydesk/internal/timetable"
)

// Layouts accepted for timestamps written by older clients, which stored the
// raw value of a datetime-local input.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type legacySkill struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	Level   string `mapstructure:"level"`
	AddedAt string `mapstructure:"addedAt"`
}

type legacyScheduleItem struct {
	Time     string `mapstructure:"time"`
	Activity string `mapstructure:"activity"`
	Day      string `mapstructure:"day"`
}

// migrate rewrites a v1 document (skills/schedule) in place into the v2 shape
// (resumeSkills/learnedSkills/classes). It reports whether anything changed.
func migrate(raw map[string]any) (bool, error) {
	changed := false

	if v, ok := raw["skills"]; ok {
		var legacy []legacySkill
		if err := mapstructure.WeakDecode(v, &legacy); err != nil {
			return false, fmt.Errorf("migrating skills: %w", err)
		}
		declared, _ := raw["resumeSkills"].([]any)
		for _, s := range legacy {
			if strings.TrimSpace(s.Name) == "" {
				continue
			}
			skill := skills.Skill{
				ID:      s.ID,
				Name:    s.Name,
				Level:   s.Level,
				Source:  skills.SourceManual,
				AddedAt: parseLegacyTime(s.AddedAt),
			}
			if skill.ID == "" {
				skill.ID = uuid.NewString()
			}
			declared = append(declared, skill)
		}
		raw["resumeSkills"] = declared
		delete(raw, "skills")
		changed = true
	}

	if v, ok := raw["schedule"]; ok {
		var legacy []legacyScheduleItem
		if err := mapstructure.WeakDecode(v, &legacy); err != nil {
			return false, fmt.Errorf("migrating schedule: %w", err)
		}
		classes, _ := raw["classes"].([]any)
		for _, item := range legacy {
			if item.Time == "" && item.Activity == "" {
				continue
			}
			classes = append(classes, timetable.Class{
				ID:      uuid.NewString(),
				Day:     item.Day,
				Time:    item.Time,
				Subject: item.Activity,
			})
		}
		raw["classes"] = classes
		delete(raw, "schedule")
		changed = true
	}

	for _, key := range []string{"reminders", "history"} {
		items, _ := raw[key].([]any)
		for _, item := range items {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, field := range []string{"deadline", "createdAt", "completedAt"} {
				if normalizeTimeField(rec, field) {
					changed = true
				}
			}
		}
	}

	if v, ok := raw["schemaVersion"].(float64); !ok || int(v) < SchemaVersion {
		raw["schemaVersion"] = SchemaVersion
		changed = true
	}
	return changed, nil
}

// normalizeTimeField rewrites a legacy local timestamp as RFC3339.
func normalizeTimeField(rec map[string]any, field string) bool {
	s, ok := rec[field].(string)
	if !ok || s == "" {
		return false
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return false
	}
	t := parseLegacyTime(s)
	if t.IsZero() {
		return false
	}
	rec[field] = t.Format(time.RFC3339)
	return true
}

func parseLegacyTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
