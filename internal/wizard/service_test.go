// internal/wizard/service_test.go
package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/models"
)

// ==========================
// Test Doubles
// ==========================

// memStore keeps sessions in a map, round-tripping through JSON the way
// the Redis store does.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Save(_ context.Context, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.data[state.ID] = raw
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*State, error) {
	raw, ok := m.data[id]
	if !ok {
		return nil, stderrors.NewSessionNotFoundError(id)
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.data, id)
	return nil
}

func (m *memStore) Touch(_ context.Context, id string) error {
	if _, ok := m.data[id]; !ok {
		return stderrors.NewSessionNotFoundError(id)
	}
	return nil
}

type fakeSink struct {
	appended []*models.SubmissionRecord
	err      error
}

func (f *fakeSink) Name() string { return "fake" }

func (f *fakeSink) Append(_ context.Context, record *models.SubmissionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, record)
	return nil
}

type fakeNotifier struct {
	notified []*models.SubmissionRecord
}

func (f *fakeNotifier) NotifySubmission(_ context.Context, record *models.SubmissionRecord) {
	f.notified = append(f.notified, record)
}

func newTestService(t *testing.T) (*Service, *memStore, *fakeSink, *fakeNotifier) {
	store := newMemStore()
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	svc := NewService(store, sink, notifier, logger.NewTestLogger(t))
	return svc, store, sink, notifier
}

func validDraft() models.IntakeDraft {
	return models.IntakeDraft{
		CustomerName:   "김민수",
		PhoneRaw:       "01012345678",
		CompanyName:    "민수식당",
		BusinessType:   models.BusinessTypeIndividual,
		Industry:       models.IndustryFoodService,
		TenureBucket:   models.TenureOneToThree,
		MonthlyRevenue: "3000",
		TaxStatus:      models.TaxStatusCurrent,
	}
}

// ==========================
// Wizard Flow Tests
// ==========================

func TestService_StartSession(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	state, err := svc.StartSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StepIntake, state.Step)
	assert.NotEmpty(t, state.ID)
	assert.False(t, state.Answers.AnyYes())
	assert.Contains(t, store.data, state.ID)
}

func TestService_SubmitIntake_AdvancesOnValidDraft(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	updated, validationErrs, err := svc.SubmitIntake(ctx, state.ID, validDraft())

	require.NoError(t, err)
	require.Empty(t, validationErrs)
	assert.Equal(t, StepChecklist, updated.Step)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "010-1234-5678", updated.Profile.PhoneFormatted)
	assert.Equal(t, 3000, updated.Profile.MonthlyRevenueManwon)
}

func TestService_SubmitIntake_KeepsDraftOnFailure(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	draft := validDraft()
	draft.PhoneRaw = "1234"
	draft.CompanyName = "그대로남는식당"

	updated, validationErrs, err := svc.SubmitIntake(ctx, state.ID, draft)

	require.NoError(t, err)
	require.Len(t, validationErrs, 1)
	assert.Equal(t, StepIntake, updated.Step)
	assert.Nil(t, updated.Profile)

	// the rejected raw draft is persisted for re-display
	reloaded, err := svc.GetSession(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "그대로남는식당", reloaded.Draft.CompanyName)
	assert.Equal(t, "1234", reloaded.Draft.PhoneRaw)
}

func TestService_Back_DiscardsProfileKeepsDraftAndAnswers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)

	answers := models.NewChecklistAnswers()
	answers["q2"] = models.AnswerYes
	_, err = svc.UpdateChecklist(ctx, state.ID, answers)
	require.NoError(t, err)

	back, err := svc.Back(ctx, state.ID)
	require.NoError(t, err)

	assert.Equal(t, StepIntake, back.Step)
	assert.Nil(t, back.Profile)
	assert.Equal(t, "김민수", back.Draft.CustomerName)
	assert.Equal(t, models.AnswerYes, back.Answers["q2"])
}

func TestService_Back_OnIntakeIsNoOp(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	back, err := svc.Back(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, StepIntake, back.Step)
}

func TestService_UpdateChecklist_RequiresChecklistStep(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.UpdateChecklist(ctx, state.ID, models.ChecklistAnswers{"q1": models.AnswerYes})

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeIntakeIncomplete, stdErr.Code)
}

func TestService_UpdateChecklist_NormalizesAnswers(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)

	updated, err := svc.UpdateChecklist(ctx, state.ID, models.ChecklistAnswers{
		"q4":    models.AnswerYes,
		"bogus": models.AnswerYes,
	})
	require.NoError(t, err)

	assert.Len(t, updated.Answers, 6)
	assert.Equal(t, models.AnswerYes, updated.Answers["q4"])
	assert.NotContains(t, updated.Answers, "bogus")
}

// ==========================
// Submit Tests
// ==========================

func TestService_Submit_HappyPath(t *testing.T) {
	svc, store, sink, notifier := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)

	result, err := svc.Submit(ctx, state.ID)

	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.Nil(t, result.SinkError)
	assert.Equal(t, models.GradeA, result.Record.Grade)
	assert.False(t, result.Record.RiskFlag)

	require.Len(t, sink.appended, 1)
	assert.Len(t, sink.appended[0].Row(), 13)
	require.Len(t, notifier.notified, 1)

	// session stays on the checklist step until its TTL expires
	require.Contains(t, store.data, state.ID)
	reloaded, err := svc.GetSession(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, StepChecklist, reloaded.Step)
}

func TestService_Submit_RepeatAppendsAnotherRow(t *testing.T) {
	svc, _, sink, notifier := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)

	first, err := svc.Submit(ctx, state.ID)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, state.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Record.Grade, second.Record.Grade)
	require.Len(t, sink.appended, 2)
	assert.Equal(t, sink.appended[0].Row()[1], sink.appended[1].Row()[1])
	assert.Len(t, notifier.notified, 2)
}

func TestService_EndSession(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, state.ID))
	assert.NotContains(t, store.data, state.ID)

	_, err = svc.GetSession(ctx, state.ID)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestService_Submit_RiskFlagFromChecklist(t *testing.T) {
	svc, _, sink, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)
	_, err = svc.UpdateChecklist(ctx, state.ID, models.ChecklistAnswers{"q6": models.AnswerYes})
	require.NoError(t, err)

	result, err := svc.Submit(ctx, state.ID)

	require.NoError(t, err)
	assert.True(t, result.Record.RiskFlag)
	require.Len(t, sink.appended, 1)
	assert.Equal(t, "있음", sink.appended[0].Row()[10])
}

func TestService_Submit_WithoutProfileRejected(t *testing.T) {
	svc, _, sink, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, state.ID)

	assert.Nil(t, result)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeIntakeIncomplete, stdErr.Code)
	assert.Empty(t, sink.appended)
}

func TestService_Submit_SinkFailureStillGrades(t *testing.T) {
	svc, store, sink, notifier := newTestService(t)
	sink.err = stderrors.NewSinkUnreachableError("fake", assert.AnError)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitIntake(ctx, state.ID, validDraft())
	require.NoError(t, err)

	result, err := svc.Submit(ctx, state.ID)

	require.NoError(t, err)
	assert.False(t, result.Persisted)
	require.NotNil(t, result.SinkError)
	assert.Equal(t, stderrors.ErrCodeSinkUnreachable, result.SinkError.Code)
	assert.Equal(t, models.GradeA, result.Record.Grade)

	// notification still fires and the session survives for a retry
	require.Len(t, notifier.notified, 1)
	assert.Contains(t, store.data, state.ID)
}

func TestService_Submit_DelinquentTaxGradesC(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	state, err := svc.StartSession(ctx)
	require.NoError(t, err)

	draft := validDraft()
	draft.TaxStatus = models.TaxStatusDelinquent
	_, _, err = svc.SubmitIntake(ctx, state.ID, draft)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, state.ID)

	require.NoError(t, err)
	assert.Equal(t, models.GradeC, result.Record.Grade)
	assert.Equal(t, "C 불가", result.Record.Grade.Label())
}

func TestService_UnknownSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "missing")
	assert.Error(t, err)

	_, _, err = svc.SubmitIntake(ctx, "missing", validDraft())
	assert.Error(t, err)

	_, err = svc.Back(ctx, "missing")
	assert.Error(t, err)

	_, err = svc.Submit(ctx, "missing")
	assert.Error(t, err)
}
