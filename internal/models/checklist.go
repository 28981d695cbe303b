// internal/models/checklist.go
package models

// ChecklistAnswer is a single yes/no answer on the broker self-assessment.
type ChecklistAnswer string

const (
	AnswerNo  ChecklistAnswer = "아니오"
	AnswerYes ChecklistAnswer = "예"
)

// ChecklistQuestionIDs fixes the order and identity of the six
// self-assessment questions.
var ChecklistQuestionIDs = []string{"q1", "q2", "q3", "q4", "q5", "q6"}

// ChecklistQuestions maps each question ID to its display text.
var ChecklistQuestions = map[string]string{
	"q1": "보험계약을 조건으로 정책자금 신청 대행을 약속한 경우",
	"q2": "재무제표 분식 · 허위 사업계획으로 대출을 진행한 경우",
	"q3": "자격 미달 기업에 대출을 사전 약속하고 대가를 요구한 경우",
	"q4": "정부 · 공공기관 직원 명함 또는 신분을 사칭한 경우",
	"q5": "인맥 · 청탁으로 정책자금이 가능하다며 착수금을 요구한 경우",
	"q6": "성공 조건 계약 후 대출 실패에도 수수료를 반환하지 않은 경우",
}

// ChecklistAnswers holds the six self-assessment answers keyed by question ID.
type ChecklistAnswers map[string]ChecklistAnswer

// NewChecklistAnswers returns an answer set with every question defaulted to no.
func NewChecklistAnswers() ChecklistAnswers {
	answers := make(ChecklistAnswers, len(ChecklistQuestionIDs))
	for _, id := range ChecklistQuestionIDs {
		answers[id] = AnswerNo
	}
	return answers
}

// Normalize fills missing questions with the default no and drops unknown
// keys, so a partially updated answer set stays well-formed.
func (a ChecklistAnswers) Normalize() ChecklistAnswers {
	normalized := NewChecklistAnswers()
	for _, id := range ChecklistQuestionIDs {
		if v, ok := a[id]; ok && v == AnswerYes {
			normalized[id] = AnswerYes
		}
	}
	return normalized
}

// AnyYes reports whether at least one answer equals yes.
func (a ChecklistAnswers) AnyYes() bool {
	for _, id := range ChecklistQuestionIDs {
		if a[id] == AnswerYes {
			return true
		}
	}
	return false
}

// RiskFlagLabel renders the persisted risk flag field.
func RiskFlagLabel(anyYes bool) string {
	if anyYes {
		return "있음"
	}
	return "없음"
}
