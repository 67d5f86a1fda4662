package model

import "time"

// DateLayout is the timestamp format used in reports.
const DateLayout = "2006-01-02 15:04:05"

// Report is the input of every report writer.
type Report struct {
	// Keyword is the monitored term the scan ran for.
	Keyword string

	// GeneratedAt is captured once, when the report is created.
	GeneratedAt time.Time

	// Result holds the findings. Never nil.
	Result *ScanResult
}

// NewReport creates a Report. A nil result is replaced by an empty one.
func NewReport(keyword string, result *ScanResult, at time.Time) *Report {
	if result == nil {
		result = NewScanResult()
	}
	return &Report{
		Keyword:     keyword,
		GeneratedAt: at,
		Result:      result,
	}
}

// Date returns GeneratedAt formatted with DateLayout.
func (r *Report) Date() string {
	return r.GeneratedAt.Format(DateLayout)
}
