package model

// Classification is the routing category assigned to a query
type Classification string

const (
	// ClassFactCheck marks queries whose premise must be verified first
	ClassFactCheck Classification = "fact_check"

	// ClassFinanceOnly marks pure market-data requests
	ClassFinanceOnly Classification = "finance_only"

	// ClassMixed marks queries combining news claims and financial analysis
	ClassMixed Classification = "mixed"
)

// FactStatus is the routing-level verdict on a claim's truthfulness
type FactStatus string

const (
	StatusVerified  FactStatus = "verified"
	StatusFalse     FactStatus = "false"
	StatusUncertain FactStatus = "uncertain"
)

// VerdictStatus is the richer status set produced by the structured validator
type VerdictStatus string

const (
	VerdictConfirmed          VerdictStatus = "confirmed"
	VerdictMisinformation     VerdictStatus = "misinformation"
	VerdictUncertain          VerdictStatus = "uncertain"
	VerdictPartiallyConfirmed VerdictStatus = "partially_confirmed"
)

// FactStatus maps the four-way validator status down to the routing verdict.
// Partially confirmed claims route like verified ones; the final report is
// responsible for surfacing the nuance.
func (s VerdictStatus) FactStatus() FactStatus {
	switch s {
	case VerdictConfirmed, VerdictPartiallyConfirmed:
		return StatusVerified
	case VerdictMisinformation:
		return StatusFalse
	default:
		return StatusUncertain
	}
}

// Verdict is the structured output of the news validator agent
type Verdict struct {
	Status        VerdictStatus `json:"status"`
	Summary       string        `json:"summary"`
	Sources       []string      `json:"sources,omitempty"`
	Corrections   []string      `json:"corrections,omitempty"`
	Confidence    string        `json:"confidence,omitempty"` // LOW | MEDIUM | HIGH
	ConfidencePct int           `json:"confidence_pct,omitempty"`
}

// FactCheckResult is the outcome of one fact-check, created fresh per query
// and consumed once by the router.
type FactCheckResult struct {
	Status FactStatus
	Reason string

	// Verdict is non-nil only when the validator returned parseable JSON
	Verdict *Verdict
}

// NewsItem is one entry of the web research agent's output
type NewsItem struct {
	Headline string `json:"headline"`
	Date     string `json:"date"` // ISO-8601
	Source   string `json:"source"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
}

// MarketData is one ticker row of the finance agent's output
type MarketData struct {
	Ticker       string   `json:"ticker"`
	CurrentPrice float64  `json:"current_price"`
	Change1D     *float64 `json:"change_1d"`
	Change5D     *float64 `json:"change_5d"`
	Change1M     *float64 `json:"change_1m"`
	VolumeVsAvg  *float64 `json:"volume_vs_avg"`
	Beta         *float64 `json:"beta"`
	Volatility30 *float64 `json:"volatility_30d"`
	RiskLevel    string   `json:"risk_level"` // "🟢 LOW" | "🟡 MEDIUM" | "🔴 HIGH"
	KeyNotes     string   `json:"key_notes"`
}

// RiskMetrics holds per-ticker optional risk figures
type RiskMetrics struct {
	Ticker         string   `json:"ticker"`
	VaR95          *float64 `json:"var_95"`
	MaxDrawdown    *float64 `json:"max_drawdown"`
	SharpeRatio    *float64 `json:"sharpe_ratio"`
	Interpretation string   `json:"interpretation"`
}

// RiskAssessment is the finance agent's aggregate risk section
type RiskAssessment struct {
	Summary         string        `json:"summary"`
	DetailedMetrics []RiskMetrics `json:"detailed_metrics,omitempty"`
	TrendsAnalysis  string        `json:"trends_analysis,omitempty"`
}

// FinanceReport is the finance agent's full structured output
type FinanceReport struct {
	MarketData     []MarketData   `json:"market_data"`
	RiskAssessment RiskAssessment `json:"risk_assessment"`
}
