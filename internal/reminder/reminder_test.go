package reminder

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCloseMovesToHistory(t *testing.T) {
	r := NewReminder("rem1", "Lab report", "pandas and numpy", at(10), t0, false)
	r.NotificationsSent = []string{"50%"}
	done := at(6)

	entry, err := r.Close(StatusDone, done)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if entry.Status != StatusDone || !entry.CompletedAt.Equal(done) {
		t.Errorf("unexpected history entry: %+v", entry)
	}
	r.NotificationsSent = append(r.NotificationsSent, "90%")
	if len(entry.NotificationsSent) != 1 {
		t.Errorf("history entry shares the sent-set with the reminder: %v", entry.NotificationsSent)
	}
}

func TestCloseRejectsPending(t *testing.T) {
	r := NewReminder("rem1", "Lab report", "", at(10), t0, false)
	if _, err := r.Close(StatusPending, time.Now()); err == nil {
		t.Fatal("expected error closing reminder as pending")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("done"); err != nil {
		t.Errorf("ParseStatus(done): %v", err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("ParseStatus(archived): expected error")
	}
}

func TestHistoryEntryJSONIsFlat(t *testing.T) {
	r := NewReminder("rem1", "Lab report", "", at(10), t0, true)
	entry, _ := r.Close(StatusCancelled, at(2))

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "text", "deadline", "status", "completedAt", "important"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("history JSON missing %q: %s", key, data)
		}
	}
}

func TestSkillText(t *testing.T) {
	r := NewReminder("rem1", "Finish React app", "", at(10), t0, false)
	if r.SkillText() != "Finish React app" {
		t.Errorf("unexpected skill text %q", r.SkillText())
	}
	r.Description = "uses docker"
	if r.SkillText() != "Finish React app\nuses docker" {
		t.Errorf("unexpected skill text %q", r.SkillText())
	}
}
