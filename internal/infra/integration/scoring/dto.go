package scoring

// scoreResponse is the scoring service reply. "reason" is singular on the wire.
type scoreResponse struct {
	Score  *float64 `json:"score"`
	Reason []string `json:"reason"`
}
