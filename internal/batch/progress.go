package batch

const percentMultiplier = 100

// Progress is a point-in-time view of a Process run.
type Progress struct {
	TotalItems       int `json:"total_items"`
	ProcessedItems   int `json:"processed_items"`
	TotalBatches     int `json:"total_batches"`
	ProcessedBatches int `json:"processed_batches"`
}

// PercentComplete returns completion in the range 0-100.
func (p Progress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / float64(p.TotalItems) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (p Progress) IsComplete() bool {
	return p.ProcessedItems >= p.TotalItems
}
