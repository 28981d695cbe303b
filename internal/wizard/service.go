// internal/wizard/service.go
package wizard

import (
	"context"
	"time"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/common/metrics"
	"policyfund-intake/internal/grading"
	"policyfund-intake/internal/intake"
	"policyfund-intake/internal/models"
)

// SessionStore persists wizard sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, state *State) error
	Get(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

// Sink appends a completed submission record to the external store.
type Sink interface {
	Name() string
	Append(ctx context.Context, record *models.SubmissionRecord) error
}

// Notifier sends post-submit notifications. Failures must be swallowed by
// the implementation; a submission never fails because of a notification.
type Notifier interface {
	NotifySubmission(ctx context.Context, record *models.SubmissionRecord)
}

// Service drives the two-step wizard: intake validation, checklist
// answers, grading and final persistence.
type Service struct {
	store    SessionStore
	sink     Sink
	notifier Notifier
	logger   logger.Logger
}

// NewService wires the wizard over its collaborators. notifier may be nil
// when notifications are disabled.
func NewService(store SessionStore, sink Sink, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		store:    store,
		sink:     sink,
		notifier: notifier,
		logger:   log,
	}
}

// SubmitResult reports the outcome of a completed submission. Persisted is
// false when every sink attempt failed; the record still carries the grade
// so the caller can show the result.
type SubmitResult struct {
	Record    *models.SubmissionRecord
	Persisted bool
	SinkError *stderrors.StandardError
}

// StartSession creates and persists a fresh session on the intake step.
func (s *Service) StartSession(ctx context.Context) (*State, error) {
	state := NewState()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	metrics.WizardTransitions.WithLabelValues("start").Inc()
	s.logger.Info("Session started", map[string]interface{}{
		"session_id": state.ID,
	})
	return state, nil
}

// GetSession loads an existing session and slides its TTL, so a client
// re-rendering the form keeps the session alive.
func (s *Service) GetSession(ctx context.Context, id string) (*State, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Touch(ctx, id); err != nil {
		s.logger.WithError(err).Warn("Failed to extend session TTL", map[string]interface{}{
			"session_id": id,
		})
	}
	return state, nil
}

// SubmitIntake validates the step-1 draft. On success the session advances
// to the checklist; on failure it stays on intake with the raw draft
// preserved for re-display.
func (s *Service) SubmitIntake(ctx context.Context, id string, draft models.IntakeDraft) (*State, []intake.ValidationError, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	profile, validationErrs := intake.Validate(draft)
	if len(validationErrs) > 0 {
		for _, ve := range validationErrs {
			metrics.ValidationFailures.WithLabelValues(string(ve.Code)).Inc()
		}
		state.Draft = draft
		state.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, state); err != nil {
			return nil, nil, err
		}
		s.logger.Warn("Intake validation failed", map[string]interface{}{
			"session_id": id,
			"errors":     len(validationErrs),
		})
		return state, validationErrs, nil
	}

	state.Advance(draft, profile)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, nil, err
	}
	metrics.WizardTransitions.WithLabelValues("intake_to_checklist").Inc()
	return state, nil, nil
}

// Back returns the session from the checklist to the intake step. Calling
// it on the intake step is a no-op.
func (s *Service) Back(ctx context.Context, id string) (*State, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Step == StepIntake {
		return state, nil
	}

	state.Back()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	metrics.WizardTransitions.WithLabelValues("checklist_to_intake").Inc()
	return state, nil
}

// UpdateChecklist replaces the session's checklist answers.
func (s *Service) UpdateChecklist(ctx context.Context, id string, answers models.ChecklistAnswers) (*State, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := state.SetAnswers(answers); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// EndSession discards a session before its TTL runs out, for clients that
// abandon the wizard explicitly.
func (s *Service) EndSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.WizardTransitions.WithLabelValues("abandon").Inc()
	s.logger.Info("Session ended", map[string]interface{}{
		"session_id": id,
	})
	return nil
}

// Submit grades the session and appends the record to the sink. The
// session stays on the checklist step, so submitting again appends another
// row; it goes away when its TTL runs out. A sink failure does not lose
// the grade: the result comes back with Persisted false and the sink's
// error attached.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	start := time.Now()

	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !state.CanSubmit() {
		metrics.SubmitDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		return nil, stderrors.NewIntakeIncompleteError()
	}

	grade := grading.GradeProfile(state.Profile)
	metrics.GradesIssued.WithLabelValues(string(grade)).Inc()

	record := models.NewSubmissionRecord(state.ID, time.Now(), state.Profile, state.Answers.AnyYes(), grade)

	result := &SubmitResult{Record: record, Persisted: true}
	if err := s.sink.Append(ctx, record); err != nil {
		result.Persisted = false
		metrics.SinkFailures.WithLabelValues(s.sink.Name(), errorCode(err)).Inc()
		s.logger.WithError(err).Error("Failed to persist submission", map[string]interface{}{
			"session_id": id,
			"sink":       s.sink.Name(),
			"grade":      string(grade),
		})
		if stdErr, ok := err.(*stderrors.StandardError); ok {
			result.SinkError = stdErr
		} else {
			result.SinkError = stderrors.NewSinkUnreachableError(s.sink.Name(), err)
		}
	} else {
		metrics.SinkAppends.WithLabelValues(s.sink.Name()).Inc()
	}

	if s.notifier != nil {
		s.notifier.NotifySubmission(ctx, record)
	}

	state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.WithError(err).Warn("Failed to refresh submitted session", map[string]interface{}{
			"session_id": id,
		})
	}

	outcome := "persisted"
	if !result.Persisted {
		outcome = "sink_failed"
	}
	metrics.SubmitDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	metrics.WizardTransitions.WithLabelValues("submit").Inc()

	s.logger.Info("Submission completed", map[string]interface{}{
		"session_id": id,
		"grade":      string(grade),
		"persisted":  result.Persisted,
	})
	return result, nil
}

func errorCode(err error) string {
	if stdErr, ok := err.(*stderrors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN"
}
