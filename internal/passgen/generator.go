package passgen

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	MinLength     = 4
	MaxLength     = 128
	DefaultLength = 16
)

var (
	ErrInvalidOptions = errors.New("invalid generation options")

	ErrNoCharacterTypes   = fmt.Errorf("%w: at least one character type must be selected", ErrInvalidOptions)
	ErrLengthInsufficient = fmt.Errorf("%w: password length must be at least equal to the number of selected character types", ErrInvalidOptions)
	ErrLengthTooShort     = fmt.Errorf("%w: password length must be at least %d", ErrInvalidOptions, MinLength)
	ErrLengthTooLong      = fmt.Errorf("%w: password length must be at most %d", ErrInvalidOptions, MaxLength)

	ErrUnknownSource = errors.New("unknown random source")
)

// Class is one of the fixed character sets a password may draw from.
type Class struct {
	Name  string
	Chars string
}

// Classes in the order they are seeded into a password.
var (
	Uppercase = Class{Name: "uppercase", Chars: uppercaseChars}
	Lowercase = Class{Name: "lowercase", Chars: lowercaseChars}
	Numbers   = Class{Name: "numbers", Chars: numberChars}
	Symbols   = Class{Name: "symbols", Chars: symbolChars}
)

// Options configures a single generation.
type Options struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
}

// DefaultOptions returns 16 characters with all types enabled.
func DefaultOptions() Options {
	return Options{
		Length:    DefaultLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Classes returns the enabled classes in seed order.
func (o Options) Classes() []Class {
	var classes []Class
	if o.Uppercase {
		classes = append(classes, Uppercase)
	}
	if o.Lowercase {
		classes = append(classes, Lowercase)
	}
	if o.Numbers {
		classes = append(classes, Numbers)
	}
	if o.Symbols {
		classes = append(classes, Symbols)
	}
	return classes
}

// Validate reports why the options cannot produce a password, if they cannot.
// A missing character type is reported before any length problem.
func (o Options) Validate() error {
	classes := o.Classes()
	if len(classes) == 0 {
		return ErrNoCharacterTypes
	}
	if o.Length < len(classes) {
		return ErrLengthInsufficient
	}
	if o.Length > MaxLength {
		return ErrLengthTooLong
	}
	return nil
}

// Password is the result of a generation.
type Password struct {
	Value    string
	Strength Strength
	// Secure is false when the value came from the pseudo-random fallback.
	Secure bool
}

// Engine generates passwords from an injected random source.
// It is safe for concurrent use when its source is.
type Engine struct {
	src RandomSource
}

// NewEngine creates an Engine. A non-secure source is reported once here.
func NewEngine(src RandomSource) *Engine {
	if !src.Secure() {
		slog.Warn("password engine using non-cryptographic random source; generated passwords are not secure")
	}
	return &Engine{src: src}
}

// NewSource selects a RandomSource by name: "crypto" (or empty) or "pseudo".
func NewSource(name string) (RandomSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "crypto":
		return NewCryptoSource(), nil
	case "pseudo":
		return NewPseudoSource(uint64(time.Now().UnixNano())), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// Secure reports whether the engine's source is cryptographically strong.
func (e *Engine) Secure() bool {
	return e.src.Secure()
}

// Generate creates a random password that contains at least one character of every
// enabled class and is exactly opts.Length characters long.
func (e *Engine) Generate(opts Options) (Password, error) {
	if err := opts.Validate(); err != nil {
		return Password{}, err
	}

	classes := opts.Classes()

	var pool strings.Builder
	for _, c := range classes {
		pool.WriteString(c.Chars)
	}
	alphabet := pool.String()

	result := make([]byte, 0, opts.Length)

	// Guarantee at least one character from each selected type.
	for _, c := range classes {
		result = append(result, e.pick(c.Chars))
	}

	// Fill the remaining positions from the full pool.
	for len(result) < opts.Length {
		result = append(result, e.pick(alphabet))
	}

	e.shuffle(result)

	value := string(result)
	return Password{
		Value:    value,
		Strength: EvaluateStrength(value),
		Secure:   e.src.Secure(),
	}, nil
}

// pick returns charset[floor(u * len(charset))].
func (e *Engine) pick(charset string) byte {
	return charset[e.index(len(charset))]
}

func (e *Engine) index(n int) int {
	i := int(e.src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// shuffle performs an in-place Fisher-Yates shuffle.
func (e *Engine) shuffle(data []byte) {
	for i := len(data) - 1; i > 0; i-- {
		j := e.index(i + 1)
		data[i], data[j] = data[j], data[i]
	}
}
