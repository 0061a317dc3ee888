package models

// Record is one indexed transcript row from the tabular corpus. The
// metadata projection is fixed at ingestion time; records are never
// mutated once indexed.
type Record struct {
	Text       string // transcription text after normalization
	Specialty  string
	SampleName string
}

// Chunk is one indexed slice of an ingested document.
type Chunk struct {
	DocID  string
	Source string // synthetic page label, e.g. "report_page_2"
	Text   string
}
