// internal/grading/grader.go
package grading

import "policyfund-intake/internal/models"

// revenueThresholdManwon is the strict lower bound on average monthly
// revenue for grade A.
const revenueThresholdManwon = 1000

// Grade maps normalized tenure, revenue, and tax status to a final grade.
// The rules are priority-ordered and the first match wins:
//
//  1. delinquent taxes force C regardless of tenure or revenue,
//  2. tenure of at least a year with revenue strictly over 1000 manwon
//     earns A,
//  3. everything else is B.
//
// The function is total and pure: every input combination yields exactly
// one grade with no error path.
func Grade(tenure models.TenureBucket, revenueManwon int, tax models.TaxStatus) models.Grade {
	if tax == models.TaxStatusDelinquent {
		return models.GradeC
	}
	if (tenure == models.TenureOneToThree || tenure == models.TenureThreePlus) && revenueManwon > revenueThresholdManwon {
		return models.GradeA
	}
	return models.GradeB
}

// GradeProfile grades a completed applicant profile.
func GradeProfile(profile *models.ApplicantProfile) models.Grade {
	return Grade(profile.TenureBucket, profile.MonthlyRevenueManwon, profile.TaxStatus)
}
