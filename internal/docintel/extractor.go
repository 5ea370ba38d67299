package docintel

import "context"

// Paragraph is one ordered text block of an extracted document. Confidence
// is nil when the extraction backend does not score paragraphs.
type Paragraph struct {
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Cell is one table cell with its recognition confidence.
type Cell struct {
	Content    string   `json:"content"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Table is one extracted table with its cells in reading order.
type Table struct {
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Cells       []Cell `json:"cells"`
}

// Extraction is the structured result of analyzing one file.
type Extraction struct {
	Text               string
	Paragraphs         []Paragraph
	Tables             []Table
	DocumentConfidence *float64
}

// Extractor analyzes one file's binary content. Implementations must be
// safe to call concurrently, one call per file.
type Extractor interface {
	Extract(ctx context.Context, content []byte, fileName string) (Extraction, error)
}
