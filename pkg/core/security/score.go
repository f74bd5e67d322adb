package security

import "github.com/reposcope/reposcope/pkg/model"

// riskScore implements spec 4.H's scoring exactly: a report starts at
// 100 and loses points per finding severity, floored at 0. This
// supersedes secret_discovery.go's calculateRiskScore, which instead
// accumulates additively from zero with a different weight table and
// verified/false-positive adjustments not part of this spec.
func riskScore(counts map[model.SecuritySeverity]int) int {
	score := 100
	score -= 25 * counts[model.SeverityCritical]
	score -= 15 * counts[model.SeverityHigh]
	score -= 8 * counts[model.SeverityMedium]
	score -= 3 * counts[model.SeverityLow]
	score -= 1 * counts[model.SeverityInfo]
	if score < 0 {
		score = 0
	}
	return score
}

func riskLevel(score int) model.RiskLevel {
	switch {
	case score >= 90:
		return model.RiskMinimal
	case score >= 70:
		return model.RiskLow
	case score >= 50:
		return model.RiskMedium
	case score >= 25:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}
