package passgen

import "unicode/utf8"

// Label is the qualitative strength of a password.
type Label string

const (
	Weak       Label = "Weak"
	Medium     Label = "Medium"
	Strong     Label = "Strong"
	VeryStrong Label = "VeryStrong"
)

// Hint is a short user-facing description of the label.
func (l Label) Hint() string {
	switch l {
	case Weak:
		return "weak. Try adding more character types."
	case Medium:
		return "moderate. Consider making it longer."
	case Strong:
		return "strong."
	case VeryStrong:
		return "very strong. Excellent!"
	default:
		return ""
	}
}

// Strength is a score in [0, 6] and its label.
type Strength struct {
	Score int
	Label Label
}

// EvaluateStrength scores a password: one point per character type present
// (uppercase, lowercase, digit, anything else), one for 12+ characters and
// one more for 16+. Length is counted in runes.
func EvaluateStrength(password string) Strength {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	score := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}

	n := utf8.RuneCountInString(password)
	if n >= 12 {
		score++
	}
	if n >= 16 {
		score++
	}

	return Strength{Score: score, Label: labelFor(score)}
}

func labelFor(score int) Label {
	switch {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	case score == 5:
		return Strong
	default:
		return VeryStrong
	}
}
