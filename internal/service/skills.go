package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"studydesk/internal/document"
	"studydesk/internal/skills"
)

type SkillInput struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// CreateSkill adds a manually entered skill to the resume collection.
func (s *Service) CreateSkill(ctx context.Context, in SkillInput) (skills.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return skills.Skill{}, fmt.Errorf("%w: skill name is required", ErrValidation)
	}
	skill := skills.NewSkill(name, strings.TrimSpace(in.Level), skills.SourceManual, s.now())
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.ResumeSkills = append(d.ResumeSkills, skill)
		return nil
	})
	if err != nil {
		return skills.Skill{}, err
	}
	return skill, nil
}

// SaveResumeSkills extracts skills from resume text and replaces the resume
// collection with them, manual entries included.
func (s *Service) SaveResumeSkills(ctx context.Context, text string) ([]skills.Skill, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: resume text is required", ErrValidation)
	}
	resume := skills.ReplaceResume(skills.Extract(text, s.vocab), s.now())
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		d.ResumeSkills = resume
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("resume skills replaced", zap.Int("count", len(resume)))
	return resume, nil
}

// DeleteSkill removes a resume skill. Learned skills are never removed.
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(d *document.Document) error {
		var ok bool
		d.ResumeSkills, ok = skills.Remove(d.ResumeSkills, id)
		if !ok {
			return fmt.Errorf("skill %s: %w", id, ErrNotFound)
		}
		return nil
	})
	return err
}

// NewSkills lists learned skills that the resume does not mention yet.
func (s *Service) NewSkills(ctx context.Context) []string {
	d := s.store.Load(ctx)
	out := skills.NewSkills(d.LearnedSkills, d.ResumeSkills)
	if out == nil {
		out = []string{}
	}
	return out
}

// ExtractSkills runs the extractor over text without touching the document.
func (s *Service) ExtractSkills(text string) []string {
	return skills.Extract(text, s.vocab)
}
