package verify

// Check identifies one verification rule.
type Check string

const (
	CheckFlexure    Check = "flexure"
	CheckShear      Check = "shear"
	CheckPMEnvelope Check = "pm-envelope"
	CheckAxialRatio Check = "axial-ratio"
	CheckDeflection Check = "deflection"
	CheckCrackWidth Check = "crack-width"
	CheckSteelRatio Check = "steel-ratio"

	// Story-level rules.
	CheckStoryArea        Check = "story-area-ratio"
	CheckColumnContinuity Check = "column-continuity"
)

// Record is one executed check. Demand and Capacity carry the governing
// pair in the check's own unit; Ratio is the utilization; Violation is the
// weighted overage, zero when the check passes.
type Record struct {
	Check     Check
	Member    string // member label, empty for story-level checks
	Story     int
	Demand    float64
	Capacity  float64
	Ratio     float64
	Violation float64
}

// Passed reports whether the check carries no violation.
func (r Record) Passed() bool { return r.Violation == 0 }

// Report aggregates every record of one verification pass.
type Report struct {
	Records      []Record
	ViolationSum float64
}

func (r *Report) add(rec Record) {
	r.Records = append(r.Records, rec)
	r.ViolationSum += rec.Violation
}

// Feasible reports whether every check passed.
func (r *Report) Feasible() bool { return r.ViolationSum == 0 }

// Failures returns the records that did not pass, in check order.
func (r *Report) Failures() []Record {
	var out []Record
	for _, rec := range r.Records {
		if !rec.Passed() {
			out = append(out, rec)
		}
	}
	return out
}

// Worst returns the record with the largest violation, or the zero Record
// when the report is fully feasible.
func (r *Report) Worst() Record {
	var w Record
	for _, rec := range r.Records {
		if rec.Violation > w.Violation {
			w = rec
		}
	}
	return w
}
