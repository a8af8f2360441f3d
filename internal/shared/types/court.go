package types

// Verdict is the court's ruling on an appealed block
type Verdict string

const (
	VerdictUphold   Verdict = "uphold"
	VerdictOverturn Verdict = "overturn"
)

// Valid reports whether v is a known verdict value
func (v Verdict) Valid() bool {
	return v == VerdictUphold || v == VerdictOverturn
}

// CourtVerdict is the adjudication result. It is transient: only its
// effect on the site record's status persists.
type CourtVerdict struct {
	Verdict   Verdict `json:"verdict"`
	Reasoning string  `json:"reasoning"`
	JudgeName string  `json:"judge_name"`
}
