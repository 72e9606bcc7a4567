package domain

// Criterion is one rubric dimension of an evaluation
type Criterion struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// DetailReport is the full evaluation for one repository.
// Either field may be absent in the backend response.
type DetailReport struct {
	Criteria []Criterion `json:"criteria,omitempty"`
	Report   *string     `json:"report,omitempty"`
}

// HasCriteria reports whether the criteria field was present
func (d *DetailReport) HasCriteria() bool {
	return d != nil && d.Criteria != nil
}

// HasReport reports whether the report body was present
func (d *DetailReport) HasReport() bool {
	return d != nil && d.Report != nil
}

// Body returns the report text, or "" when absent
func (d *DetailReport) Body() string {
	if !d.HasReport() {
		return ""
	}
	return *d.Report
}
