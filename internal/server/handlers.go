// internal/server/handlers.go
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"policyfund-intake/internal/catalog"
	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/common/logger"
	"policyfund-intake/internal/common/observability"
	"policyfund-intake/internal/models"
	"policyfund-intake/internal/wizard"
)

type handlers struct {
	svc     *wizard.Service
	catalog *catalog.Catalog
	obs     *observability.Observability
	logger  logger.Logger
}

func newHandlers(svc *wizard.Service, cat *catalog.Catalog, obs *observability.Observability, log logger.Logger) *handlers {
	return &handlers{
		svc:     svc,
		catalog: cat,
		obs:     obs,
		logger:  log,
	}
}

// sessionView is the API shape of a wizard session. The checklist question
// texts ride along so the client never hardcodes them.
type sessionView struct {
	SessionID string                  `json:"sessionId"`
	Step      wizard.Step             `json:"step"`
	Draft     models.IntakeDraft      `json:"draft"`
	Answers   models.ChecklistAnswers `json:"answers"`
	Questions []questionView          `json:"questions"`
}

type questionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func newSessionView(state *wizard.State) sessionView {
	questions := make([]questionView, 0, len(models.ChecklistQuestionIDs))
	for _, id := range models.ChecklistQuestionIDs {
		questions = append(questions, questionView{ID: id, Text: models.ChecklistQuestions[id]})
	}
	return sessionView{
		SessionID: state.ID,
		Step:      state.Step,
		Draft:     state.Draft,
		Answers:   state.Answers,
		Questions: questions,
	}
}

func (h *handlers) createSession(c *gin.Context) {
	start := time.Now()
	state, err := h.svc.StartSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, "session.create", "success", start)
	c.JSON(http.StatusCreated, newSessionView(state))
}

func (h *handlers) getSession(c *gin.Context) {
	state, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(state))
}

func (h *handlers) submitIntake(c *gin.Context) {
	start := time.Now()

	var draft models.IntakeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, validationErrs, err := h.svc.SubmitIntake(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(validationErrs) > 0 {
		h.record(c, "session.intake", "validation_failed", start)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors":  validationErrs,
			"session": newSessionView(state),
		})
		return
	}

	h.record(c, "session.intake", "success", start)
	c.JSON(http.StatusOK, newSessionView(state))
}

func (h *handlers) back(c *gin.Context) {
	state, err := h.svc.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(state))
}

type checklistRequest struct {
	Answers models.ChecklistAnswers `json:"answers"`
}

func (h *handlers) updateChecklist(c *gin.Context) {
	var req checklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, err := h.svc.UpdateChecklist(c.Request.Context(), c.Param("id"), req.Answers)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(state))
}

// submitResponse always carries the grade; persistence failure shows up as
// persisted:false plus the sink error code, never as a failed submit.
type submitResponse struct {
	SubmissionID string `json:"submissionId"`
	Grade        string `json:"grade"`
	GradeLabel   string `json:"gradeLabel"`
	GradeSummary string `json:"gradeSummary"`
	RiskFlag     string `json:"riskFlag"`
	Persisted    bool   `json:"persisted"`
	SinkError    string `json:"sinkError,omitempty"`
}

func (h *handlers) submit(c *gin.Context) {
	start := time.Now()

	result, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.record(c, "session.submit", "error", start)
		h.respondError(c, err)
		return
	}

	resp := submitResponse{
		SubmissionID: result.Record.ID,
		Grade:        string(result.Record.Grade),
		GradeLabel:   result.Record.Grade.Label(),
		GradeSummary: result.Record.Grade.Summary(),
		RiskFlag:     models.RiskFlagLabel(result.Record.RiskFlag),
		Persisted:    result.Persisted,
	}
	if result.SinkError != nil {
		resp.SinkError = string(result.SinkError.Code)
	}

	h.record(c, "session.submit", "success", start)
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) endSession(c *gin.Context) {
	if err := h.svc.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// checkFunds evaluates the rule catalog against the session's validated
// profile. Sessions still on the intake step have no profile to check.
func (h *handlers) checkFunds(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session query parameter is required"})
		return
	}

	state, err := h.svc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if state.Profile == nil {
		h.respondError(c, stderrors.NewIntakeIncompleteError())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": h.catalog.MatchAll(state.Profile),
	})
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) record(c *gin.Context, operation, status string, start time.Time) {
	if h.obs == nil {
		return
	}
	ctx := c.Request.Context()
	h.obs.RecordOperation(ctx, operation, status)
	h.obs.RecordOperationDuration(ctx, operation, time.Since(start))
}

// respondError maps domain error codes onto HTTP statuses.
func (h *handlers) respondError(c *gin.Context, err error) {
	var stdErr *stderrors.StandardError
	if !errors.As(err, &stdErr) {
		h.logger.WithError(err).Error("Unhandled error", map[string]interface{}{
			"path": c.FullPath(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case stderrors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	case stderrors.ErrCodeIntakeIncomplete:
		status = http.StatusConflict
	case stderrors.ErrCodeMissingName, stderrors.ErrCodeInvalidPhone, stderrors.ErrCodeNonNumericRevenue:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"error":   stdErr.Message,
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})
}
