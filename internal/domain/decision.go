package domain

import "time"

// RejectRule identifies the entry gate rule that rejected a candle.
// Rules carry decision semantics directly; the human-readable reason text is
// rendered from them, never parsed back.
type RejectRule string

const (
	RuleNone             RejectRule = ""
	RuleMinVolumeRatio   RejectRule = "min_volume_ratio"
	RuleMaxVolumeRatio   RejectRule = "max_volume_ratio"
	RuleHighVolumeZScore RejectRule = "high_volume_zscore"
	RuleLowVolumeZScore  RejectRule = "low_volume_zscore"
	RuleVolumeTrend      RejectRule = "volume_trend"
	RuleVWAPDistance     RejectRule = "vwap_distance"
)

// Verdict is the persisted decision category.
type Verdict string

const (
	VerdictAllow            Verdict = "allow"
	VerdictRejectLowVolume  Verdict = "reject_low_volume"
	VerdictRejectHighVolume Verdict = "reject_high_volume"
	VerdictRejectNoTrend    Verdict = "reject_no_trend"
	VerdictReject           Verdict = "reject"
)

// VerdictForRule maps a gate rule to its decision category. Low z-score and
// VWAP-distance rejections fall into the generic reject category.
func VerdictForRule(rule RejectRule) Verdict {
	switch rule {
	case RuleNone:
		return VerdictAllow
	case RuleMinVolumeRatio:
		return VerdictRejectLowVolume
	case RuleMaxVolumeRatio, RuleHighVolumeZScore:
		return VerdictRejectHighVolume
	case RuleVolumeTrend:
		return VerdictRejectNoTrend
	default:
		return VerdictReject
	}
}

// VolumeDecision is one entry verdict for one evaluated candle. Decisions are
// persisted append-only with the full metrics snapshot for later audit.
type VolumeDecision struct {
	Timestamp  time.Time     `json:"timestamp"`
	Pair       Pair          `json:"pair"`
	Price      float64       `json:"price"`
	Volume     float64       `json:"volume"`
	Metrics    VolumeMetrics `json:"metrics"`
	Verdict    Verdict       `json:"decision"`
	Rule       RejectRule    `json:"rule,omitempty"`
	Reason     string        `json:"reason"`
	Confidence float64       `json:"confidence"`
}
