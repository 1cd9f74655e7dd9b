package model

// EncodeResponse is the Base64 form of an uploaded document.
type EncodeResponse struct {
	Base64   string   `json:"base64"`
	Filename string   `json:"filename"`
	Size     int      `json:"size"`
	Warnings []string `json:"warnings,omitempty"`
}

// DecodeRequest carries Base64 text to turn back into a document.
// With Download set the handler streams the file instead of JSON.
type DecodeRequest struct {
	Base64   string `json:"base64"`
	Download bool   `json:"download"`
}

// DecodeResponse describes a decoded document. Content is only set for XML.
type DecodeResponse struct {
	Kind     string   `json:"kind"`
	Content  string   `json:"content,omitempty"`
	Filename string   `json:"filename"`
	Size     int      `json:"size"`
	Warnings []string `json:"warnings,omitempty"`
}
