package types

// Snapshot is the serialisable state of a notebook: every category with its
// schema and its records in insertion order.
type Snapshot struct {
	Categories []CategorySnapshot `json:"categories"`
}

// CategorySnapshot pairs a category with its records.
type CategorySnapshot struct {
	Category Category `json:"category"`
	Records  []Record `json:"records"`
}
