package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"studydesk/internal/document"
	"studydesk/internal/reminder"
	"studydesk/internal/skills"
	"studydesk/internal/timetable"
)

func testDocument() *document.Document {
	created := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	d := document.New()
	r := reminder.NewReminder("rem1", "Test Reminder", "Test Desc", created.Add(24*time.Hour), created, true)
	r.NotificationsSent = []string{"50%"}
	d.Reminders = append(d.Reminders, r)
	d.LearnedSkills = append(d.LearnedSkills, skills.NewSkill("React", "", skills.SourceActivity, created))
	d.Classes = append(d.Classes, timetable.Class{ID: "c1", Day: "Monday", Time: "09:00", Subject: "Maths", Room: "B12"})
	return d
}

func runRepositoryTests(t *testing.T, repo Repository) {
	ctx := context.Background()

	empty, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get on empty repository failed: %v", err)
	}
	if len(empty.Reminders) != 0 || empty.SchemaVersion != document.SchemaVersion {
		t.Errorf("Get on empty repository: got %+v, want default document", empty)
	}

	d := testDocument()
	if err := repo.Put(ctx, d); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Reminders) != 1 {
		t.Fatalf("Get: got %d reminders, want 1", len(got.Reminders))
	}
	r := got.Reminders[0]
	if r.ID != "rem1" || r.Text != "Test Reminder" || !r.Important || !r.HasAlreadyFired("50%") {
		t.Errorf("Get: got reminder %+v", r)
	}
	if !r.Deadline.Equal(d.Reminders[0].Deadline) {
		t.Errorf("Get: deadline %v, want %v", r.Deadline, d.Reminders[0].Deadline)
	}
	if len(got.LearnedSkills) != 1 || got.LearnedSkills[0].Name != "React" {
		t.Errorf("Get: learned skills %+v", got.LearnedSkills)
	}
	if len(got.Classes) != 1 || got.Classes[0].Room != "B12" {
		t.Errorf("Get: classes %+v", got.Classes)
	}

	// Mutating a returned copy must not leak into the repository.
	got.Reminders = nil
	again, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(again.Reminders) != 1 {
		t.Errorf("Get after local mutation: got %d reminders, want 1", len(again.Reminders))
	}

	// Overwrite replaces the whole document.
	if err := repo.Put(ctx, document.New()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	cleared, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(cleared.Reminders) != 0 || len(cleared.Classes) != 0 {
		t.Errorf("Get after overwrite: got %+v", cleared)
	}
}

func TestMemoryStorage(t *testing.T) {
	runRepositoryTests(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "studydesk.json")
	fs := NewFileStorage(path)
	if fs.Path() != path {
		t.Errorf("Path() = %q, want %q", fs.Path(), path)
	}
	runRepositoryTests(t, fs)
}

func TestFileStorageMigratesLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{"reminders": [], "skills": [{"name": "Go", "level": "beginner", "id": "1"}],
		"schedule": [{"time": "09:00", "activity": "Maths"}]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("writing legacy file: %v", err)
	}

	d, err := NewFileStorage(path).Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(d.ResumeSkills) != 1 || d.ResumeSkills[0].Name != "Go" {
		t.Errorf("resume skills: got %+v", d.ResumeSkills)
	}
	if len(d.Classes) != 1 || d.Classes[0].Subject != "Maths" {
		t.Errorf("classes: got %+v", d.Classes)
	}
}

func TestFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	_, err := NewFileStorage(path).Get(context.Background())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestStoreFallsBackToDefaultOnReadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	core, logs := observer.New(zap.ErrorLevel)
	store := NewStore(NewFileStorage(path), zap.New(core))

	d := store.Load(context.Background())
	if len(d.Reminders) != 0 {
		t.Errorf("expected default document, got %+v", d)
	}
	if logs.FilterMessage("failed to load document, using defaults").Len() != 1 {
		t.Errorf("expected the read failure to be logged, got %v", logs.All())
	}
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStorage()
	store := NewStore(repo, nil)

	_, err := store.Update(ctx, func(d *document.Document) error {
		d.Subjects = append(d.Subjects, timetable.Subject{ID: "s1", Name: "Maths"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if d, _ := repo.Get(ctx); len(d.Subjects) != 1 {
		t.Fatalf("Update did not persist: %+v", d.Subjects)
	}

	boom := errors.New("boom")
	_, err = store.Update(ctx, func(d *document.Document) error {
		d.Subjects = nil
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	_, err = store.Update(ctx, func(d *document.Document) error {
		d.Subjects = nil
		return ErrUnchanged
	})
	if err != nil {
		t.Fatalf("ErrUnchanged surfaced as %v", err)
	}
	if d, _ := repo.Get(ctx); len(d.Subjects) != 1 {
		t.Errorf("aborted updates were written: %+v", d.Subjects)
	}
}

type failingRepository struct {
	Repository
}

func (failingRepository) Put(context.Context, *document.Document) error {
	return ErrPersistence
}

func TestStoreLogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := NewStore(failingRepository{NewMemoryStorage()}, zap.New(core))

	d, err := store.Update(context.Background(), func(d *document.Document) error {
		d.Subjects = append(d.Subjects, timetable.Subject{ID: "s1", Name: "Maths"})
		return nil
	})
	if err != nil {
		t.Fatalf("write failure surfaced: %v", err)
	}
	if len(d.Subjects) != 1 {
		t.Errorf("Update result: %+v", d.Subjects)
	}
	if logs.FilterMessage("failed to save document").Len() != 1 {
		t.Errorf("expected the write failure to be logged, got %v", logs.All())
	}
}
