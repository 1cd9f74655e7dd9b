package model

// QRRequest represents a QR code generation request.
type QRRequest struct {
	Text string `json:"text"`
	Size int    `json:"size"`
}
