// internal/models/grade.go
package models

// Grade is the eligibility classification for a submission.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

var gradeLabels = map[Grade]string{
	GradeA: "A 적합",
	GradeB: "B 보완필요",
	GradeC: "C 불가",
}

var gradeSummaries = map[Grade]string{
	GradeA: "기본 요건 충족으로 접수 진행 가능합니다.",
	GradeB: "일부 요건 보완이 필요해 담당자와 상담 후 진행 권장드립니다.",
	GradeC: "현재 진행이 어려운 사유가 있어 담당자와 상담 후 진행 권장드립니다.",
}

// Label returns the fixed display label for the grade. Unknown values fall
// back to grade B's label to keep the lookup total.
func (g Grade) Label() string {
	if label, ok := gradeLabels[g]; ok {
		return label
	}
	return gradeLabels[GradeB]
}

// Summary returns the fixed human-readable summary for the grade, with the
// same fallback as Label.
func (g Grade) Summary() string {
	if summary, ok := gradeSummaries[g]; ok {
		return summary
	}
	return gradeSummaries[GradeB]
}
