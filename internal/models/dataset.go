package models

// DatasetRow joins a ReconciledResult with the display fields of its
// originating RawRecord. This is the row shape exposed to the dashboard and
// export layers.
type DatasetRow struct {
	Record RawRecord        `json:"record"`
	Result ReconciledResult `json:"result"`
}

// UnifiedDataset is the ordered, append-only output of one analysis run.
// Insertion order reflects collection order, not record timestamps. A
// dataset belongs to exactly one run and is never merged across runs.
type UnifiedDataset struct {
	rows []DatasetRow
}

func NewUnifiedDataset() *UnifiedDataset {
	return &UnifiedDataset{}
}

func (d *UnifiedDataset) Append(record RawRecord, result ReconciledResult) {
	d.rows = append(d.rows, DatasetRow{Record: record, Result: result})
}

func (d *UnifiedDataset) Len() int {
	return len(d.rows)
}

// Rows returns the rows in insertion order. The returned slice is shared;
// callers must not mutate it.
func (d *UnifiedDataset) Rows() []DatasetRow {
	return d.rows
}

// Summary holds the aggregate statistics for one run.
type Summary struct {
	RunID         string                     `json:"run_id"`
	Query         string                     `json:"query"`
	TotalRecords  int                        `json:"total_records"`
	DominantLabel Label                      `json:"dominant_label"`
	LabelCounts   map[Label]int              `json:"label_counts"`
	PlatformStats map[Platform]map[Label]int `json:"platform_stats"`
	AgreementRate float64                    `json:"agreement_rate"`
	ScoredByBoth  int                        `json:"scored_by_both"`
	Degraded      bool                       `json:"degraded"`
	PlatformErrs  map[Platform]string        `json:"platform_errors,omitempty"`
}

// Stats flattens the summary into the named-statistics map the dashboard
// layer consumes.
func (s Summary) Stats() map[string]any {
	stats := map[string]any{
		"run_id":         s.RunID,
		"query":          s.Query,
		"total_records":  s.TotalRecords,
		"dominant_label": string(s.DominantLabel),
		"agreement_rate": s.AgreementRate,
		"scored_by_both": s.ScoredByBoth,
		"degraded":       s.Degraded,
	}
	for label, n := range s.LabelCounts {
		stats["count_"+string(label)] = n
	}
	for platform, counts := range s.PlatformStats {
		for label, n := range counts {
			stats["count_"+string(platform)+"_"+string(label)] = n
		}
	}
	return stats
}
