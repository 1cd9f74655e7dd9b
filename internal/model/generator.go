package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type GenerateRequest struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
	// Hash asks for an Argon2id PHC hash of the password alongside it.
	Hash bool `json:"hash"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Score    int    `json:"score"`
	Strength string `json:"strength"`
	Hint     string `json:"hint"`
	// Secure is false when the server runs on the pseudo-random fallback.
	Secure bool   `json:"secure"`
	Hash   string `json:"hash,omitempty"`
}

// StrengthRequest asks for the strength of an existing password.
type StrengthRequest struct {
	Password string `json:"password"`
}

// StrengthResponse is the score and label of a password.
type StrengthResponse struct {
	Score    int    `json:"score"`
	Strength string `json:"strength"`
	Hint     string `json:"hint"`
}
