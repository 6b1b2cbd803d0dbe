package models

// TargetDate is the resolved settlement/trade date of one assessment.
// Date is always YYYY-MM-DD; Reason is "provided" or "random-day-<day>".
type TargetDate struct {
	Date   string
	Reason string
}

// Attempt is one dated lookup the responder claims to have made while
// searching for the closest available date.
type Attempt struct {
	Date     string
	Quantity float64
	HasData  bool
}

// Verdict statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Verdict is the terminal grading artifact of one assessment. Created once,
// never mutated after emission.
type Verdict struct {
	Status  string                 `json:"status"`
	Errors  []string               `json:"errors"`
	Summary string                 `json:"summary"`
	Data    map[string]interface{} `json:"data"`
}

// Passed reports whether the verdict is a pass.
func (v *Verdict) Passed() bool { return v.Status == StatusPass }
