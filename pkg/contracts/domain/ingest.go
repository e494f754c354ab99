package domain

// PlatformUnknown is the platform marker reported when no adapter matched
// the header row.
const PlatformUnknown = "Unknown"

// StructuralErrorKind classifies row-level structural problems found while
// tokenizing a source file.
type StructuralErrorKind string

const (
	// ErrKindEmptyInput marks an unreadable or empty payload.
	ErrKindEmptyInput StructuralErrorKind = "EMPTY_INPUT"
	// ErrKindUnknownPlatform marks a header row no registered adapter claims.
	ErrKindUnknownPlatform StructuralErrorKind = "UNKNOWN_PLATFORM"
	// ErrKindTooManyFields marks a row with more fields than the header row.
	ErrKindTooManyFields StructuralErrorKind = "TOO_MANY_FIELDS"
	// ErrKindTooFewFields marks a row with fewer fields than the header row.
	ErrKindTooFewFields StructuralErrorKind = "TOO_FEW_FIELDS"
	// ErrKindMalformedRow marks any other tokenizer-level failure.
	ErrKindMalformedRow StructuralErrorKind = "MALFORMED_ROW"
)

// StructuralError describes a recoverable shape problem on a single source
// row. Structural errors are collected alongside best-effort data; they never
// abort ingestion once a platform has been detected.
type StructuralError struct {
	Kind    StructuralErrorKind `json:"kind"`
	Row     int                 `json:"row"` // 1-based source row number, 0 when not row-specific
	Message string              `json:"message"`
}

// IngestResult is the complete outcome of one ingestion run.
type IngestResult struct {
	RunID    string            `json:"run_id"`
	Headers  []string          `json:"headers"`
	Data     []OrderLine       `json:"data"`
	Errors   []StructuralError `json:"errors"`
	Platform string            `json:"platform"` // PlatformUnknown on detection failure
}
