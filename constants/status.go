package constants

// DocStatus is the canonical outcome for a processed document.
type DocStatus string

// Stable values (these exact strings appear in logs and run summaries).
const (
	DocStatusParsed  DocStatus = "PARSED"  // fields extracted, rows emitted
	DocStatusEmpty   DocStatus = "EMPTY"   // no usable page text, stub row emitted
	DocStatusSkipped DocStatus = "SKIPPED" // on the exclusion list
	DocStatusFailed  DocStatus = "FAILED"  // unreadable text or coherence abort
)
