// Package domain contains the entities and error taxonomy of the student
// portal: academic periods, subject records, session state, and the derived
// report structures served to the dashboard and exports.
package domain

// AcademicPeriod identifies one enrollment cycle (ano letivo + periodo
// letivo). The upstream returns these newest-first; the first element is
// treated as the current period. That ordering is an upstream convention,
// not something this service verifies.
type AcademicPeriod struct {
	Year string `json:"ano_letivo"`
	Term string `json:"periodo_letivo"`
}

// UnmarshalPeriod tolerates both field spellings the two upstream period
// endpoints use (ano_letivo/periodo_letivo on v2, ano/periodo on legacy).
func UnmarshalPeriod(raw map[string]interface{}) AcademicPeriod {
	return AcademicPeriod{
		Year: stringField(raw, "ano_letivo", "ano"),
		Term: stringField(raw, "periodo_letivo", "periodo"),
	}
}

// IsZero reports whether the period carries no selection.
func (p AcademicPeriod) IsZero() bool {
	return p.Year == "" && p.Term == ""
}

// Semester renders the period in the "<year>/<term>" form the diaries
// endpoint expects.
func (p AcademicPeriod) Semester() string {
	return p.Year + "/" + p.Term
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			switch s := v.(type) {
			case string:
				return s
			case float64:
				// Some deployments return the year as a number.
				return formatNumeric(s)
			}
		}
	}
	return ""
}
