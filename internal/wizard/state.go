// internal/wizard/state.go
package wizard

import (
	"time"

	"github.com/google/uuid"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/models"
)

// Step names the wizard screen a session is currently on.
type Step string

const (
	StepIntake    Step = "intake"
	StepChecklist Step = "checklist"
)

// State is one wizard session. Which fields are populated depends on the
// step: on intake only the draft is live; once the session advances to the
// checklist the profile is fixed and the draft is kept solely so a back
// navigation can pre-fill the form.
type State struct {
	ID        string                   `json:"id"`
	Step      Step                     `json:"step"`
	Draft     models.IntakeDraft       `json:"draft"`
	Profile   *models.ApplicantProfile `json:"profile,omitempty"`
	Answers   models.ChecklistAnswers  `json:"answers"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// NewState starts a fresh session on the intake step with all checklist
// answers defaulted to no.
func NewState() *State {
	now := time.Now().UTC()
	return &State{
		ID:        uuid.New().String(),
		Step:      StepIntake,
		Answers:   models.NewChecklistAnswers(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance moves the session to the checklist step with a validated
// profile. The raw draft is retained for back navigation.
func (s *State) Advance(draft models.IntakeDraft, profile *models.ApplicantProfile) {
	s.Draft = draft
	s.Profile = profile
	s.Step = StepChecklist
	s.UpdatedAt = time.Now().UTC()
}

// Back returns the session to the intake step. The draft keeps its last
// raw values and the checklist answers are preserved, but the profile is
// discarded so a stale one can never be submitted.
func (s *State) Back() {
	s.Profile = nil
	s.Step = StepIntake
	s.UpdatedAt = time.Now().UTC()
}

// SetAnswers replaces the checklist answers. Unknown question ids are
// dropped and missing ones default to no.
func (s *State) SetAnswers(answers models.ChecklistAnswers) error {
	if s.Step != StepChecklist {
		return stderrors.NewIntakeIncompleteError()
	}
	s.Answers = answers.Normalize()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// CanSubmit reports whether the session holds a complete profile on the
// checklist step.
func (s *State) CanSubmit() bool {
	return s.Step == StepChecklist && s.Profile.IsComplete()
}
