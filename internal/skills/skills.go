package skills

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SourceResume   = "resume"
	SourceManual   = "manual"
	SourceActivity = "activity"
)

type Skill struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Level   string    `json:"level,omitempty"`
	Source  string    `json:"source"`
	AddedAt time.Time `json:"addedAt"`
}

func NewSkill(name, level, source string, addedAt time.Time) Skill {
	return Skill{
		ID:      uuid.NewString(),
		Name:    name,
		Level:   level,
		Source:  source,
		AddedAt: addedAt,
	}
}

// Extract returns the sorted set of canonical skill names whose synonyms
// occur in text.
func Extract(text string, v *Vocabulary) []string {
	if v == nil || text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, e := range v.entries {
		if strings.Contains(lower, e.Synonym) {
			found[e.Canonical] = struct{}{}
		}
	}
	return sortedKeys(found)
}

// MergeLearned unions names into the learned collection. Existing entries are
// never removed or duplicated; the number of inserted skills is returned.
func MergeLearned(learned []Skill, names []string, now time.Time) ([]Skill, int) {
	have := nameSet(learned)
	added := 0
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		learned = append(learned, NewSkill(name, "", SourceActivity, now))
		added++
	}
	return learned, added
}

// ReplaceResume builds the resume collection from the latest resume's names.
func ReplaceResume(names []string, now time.Time) []Skill {
	out := make([]Skill, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, NewSkill(name, "", SourceResume, now))
	}
	return out
}

// NewSkills lists learned skill names that the resume does not declare.
func NewSkills(learned, resume []Skill) []string {
	declared := nameSet(resume)
	fresh := make(map[string]struct{})
	for _, s := range learned {
		if _, ok := declared[strings.ToLower(s.Name)]; !ok {
			fresh[s.Name] = struct{}{}
		}
	}
	return sortedKeys(fresh)
}

// Remove drops the skill with the given id and reports whether it was present.
func Remove(list []Skill, id string) ([]Skill, bool) {
	for i, s := range list {
		if s.ID == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

func nameSet(list []Skill) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[strings.ToLower(s.Name)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
