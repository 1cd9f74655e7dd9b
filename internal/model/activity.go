package model

import "time"

// Tool names recorded in the activity log.
const (
	ToolGenerator = "generator"
	ToolStrength  = "strength"
	ToolQR        = "qr"
	ToolConvert   = "convert"
)

// Outcomes recorded in the activity log.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// ActivityEvent is one use of a tool. It never carries secrets or document content.
type ActivityEvent struct {
	ID        string
	Tool      string
	Action    string
	Outcome   string
	Bytes     int
	Detail    string
	CreatedAt time.Time
}

// ActivityResponse is an activity event safe for API responses.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Tool      string    `json:"tool"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Bytes     int       `json:"bytes,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
