// internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "policyfund-intake/internal/common/errors"
	"policyfund-intake/internal/models"
)

// fundsSchema constrains the rule catalog document. The catalog is loaded
// once per process and treated as inert configuration afterwards.
const fundsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string", "minLength": 1},
			"eligibility": {
				"type": "object",
				"properties": {
					"min_business_months": {"type": "integer", "minimum": 0},
					"allowed_business_types": {"type": "array", "items": {"type": "string"}},
					"allowed_industries": {"type": "array", "items": {"type": "string"}}
				}
			},
			"exclusions": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["field", "value"],
					"properties": {
						"field": {"type": "string"},
						"value": {"type": "string"},
						"reason": {"type": "string"}
					}
				}
			}
		}
	}
}`

// Eligibility holds a fund's positive requirements.
type Eligibility struct {
	MinBusinessMonths    int      `json:"min_business_months"`
	AllowedBusinessTypes []string `json:"allowed_business_types"`
	AllowedIndustries    []string `json:"allowed_industries"`
}

// Exclusion rejects a profile when the named field equals the given value.
type Exclusion struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Fund is one entry of the rule catalog.
type Fund struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Eligibility Eligibility `json:"eligibility"`
	Exclusions  []Exclusion `json:"exclusions"`
}

// Catalog is the set of fund rules loaded at startup.
type Catalog struct {
	Funds []Fund
}

// Load reads and schema-validates the rule catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw catalog bytes against the schema and decodes them.
func Parse(data []byte) (*Catalog, error) {
	schemaLoader := gojsonschema.NewStringLoader(fundsSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, stderrors.NewCatalogInvalidError(err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, stderrors.NewCatalogInvalidError(strings.Join(details, "; "))
	}

	var funds []Fund
	if err := json.Unmarshal(data, &funds); err != nil {
		return nil, stderrors.NewCatalogInvalidError(err.Error())
	}

	return &Catalog{Funds: funds}, nil
}

// MatchResult reports one fund's verdict for a profile.
type MatchResult struct {
	FundID   string   `json:"fundId"`
	FundName string   `json:"fundName"`
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Match evaluates a fund's predicates against a profile. It returns
// pass/fail plus the list of violated-rule reasons, independent of the
// grading function.
func (f *Fund) Match(profile *models.ApplicantProfile) (bool, []string) {
	var reasons []string

	if profile.TenureMonths < f.Eligibility.MinBusinessMonths {
		reasons = append(reasons, "업력 요건 미달")
	}

	if len(f.Eligibility.AllowedBusinessTypes) > 0 &&
		!contains(f.Eligibility.AllowedBusinessTypes, string(profile.BusinessType)) {
		reasons = append(reasons, "사업자 유형 불일치")
	}

	if len(f.Eligibility.AllowedIndustries) > 0 &&
		!contains(f.Eligibility.AllowedIndustries, string(profile.Industry)) {
		reasons = append(reasons, "업종 요건 불일치")
	}

	for _, ex := range f.Exclusions {
		if profileField(profile, ex.Field) == ex.Value {
			reason := ex.Reason
			if reason == "" {
				reason = "제외 조건"
			}
			reasons = append(reasons, reason)
		}
	}

	return len(reasons) == 0, reasons
}

// MatchAll evaluates every fund in the catalog against a profile.
func (c *Catalog) MatchAll(profile *models.ApplicantProfile) []MatchResult {
	results := make([]MatchResult, 0, len(c.Funds))
	for i := range c.Funds {
		fund := &c.Funds[i]
		eligible, reasons := fund.Match(profile)
		results = append(results, MatchResult{
			FundID:   fund.ID,
			FundName: fund.Name,
			Eligible: eligible,
			Reasons:  reasons,
		})
	}
	return results
}

func profileField(profile *models.ApplicantProfile, field string) string {
	switch field {
	case "biz_type":
		return string(profile.BusinessType)
	case "industry":
		return string(profile.Industry)
	case "business_years":
		return string(profile.TenureBucket)
	case "tax_status":
		return string(profile.TaxStatus)
	default:
		return ""
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
