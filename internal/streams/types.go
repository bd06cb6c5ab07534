package streams

// Stream name constants
const (
	StreamBriefingResults = "briefing:results"
)

// Consumer group constants
const (
	GroupBriefctl = "briefctl" // operator tail
)

// Schema version constant
const (
	SchemaVersionV1 = "v1"
)

// maxStreamLen caps the stream with approximate trimming.
const maxStreamLen = 10000
