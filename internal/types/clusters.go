package types

type RiskCluster string

const (
	RiskLow     RiskCluster = "LOW"
	RiskMedium  RiskCluster = "MEDIUM"
	RiskHigh    RiskCluster = "HIGH"
	RiskUnknown RiskCluster = "UNKNOWN"
)

// RiskClusters is the display order used by distributions.
var RiskClusters = []RiskCluster{RiskLow, RiskMedium, RiskHigh, RiskUnknown}

type SatisfactionCluster string

const (
	Satisfied           SatisfactionCluster = "SATISFIED"
	Neutral             SatisfactionCluster = "NEUTRAL"
	Dissatisfied        SatisfactionCluster = "DISSATISFIED"
	SatisfactionUnknown SatisfactionCluster = "UNKNOWN"
)

var SatisfactionClusters = []SatisfactionCluster{Satisfied, Neutral, Dissatisfied, SatisfactionUnknown}
