package domain

// RiskScore derives a 0-100 score from the number of warning-flagged
// sections: 100 minus 10 per warning, floored at zero.
func RiskScore(warningSections int) int {
	score := 100 - 10*warningSections
	if score < 0 {
		return 0
	}
	return score
}
