package summarize

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

type Kind string

const (
	KindURL  Kind = "url"
	KindText Kind = "text"
)

// Input is what the user has typed into the form.
type Input struct {
	Kind  Kind
	Value string
	Title string
}

func URLInput(u string) Input {
	return Input{Kind: KindURL, Value: u}
}

func TextInput(text string) Input {
	return Input{Kind: KindText, Value: text}
}

var (
	ErrEmpty         = errors.New("input is empty")
	ErrTooLong       = errors.New("input is too long")
	ErrTooShort      = errors.New("input is too short")
	ErrMissingPrefix = errors.New("input is missing the required prefix")
	ErrInvalidURL    = errors.New("input is not a valid URL")
	ErrUnknownKind   = errors.New("unknown input kind")
)

// ValidationError carries a message suitable for showing next to the input.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Rules are checked before anything is sent to the API.
type Rules struct {
	// CharacterLimit is the maximum number of characters. Zero disables the
	// check.
	CharacterLimit int
	// RequiredPrefix, if set, must start every URL input.
	RequiredPrefix string
	// MinLength is the minimum number of characters for text input.
	MinLength int
}

func DefaultURLRules() Rules {
	return Rules{
		CharacterLimit: 2048,
		RequiredPrefix: "https://",
	}
}

func DefaultTextRules() Rules {
	return Rules{
		CharacterLimit: 10000,
		MinLength:      10,
	}
}

// RuleSet holds the rules for each kind of input.
type RuleSet struct {
	URL  Rules
	Text Rules
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		URL:  DefaultURLRules(),
		Text: DefaultTextRules(),
	}
}

func (rs RuleSet) For(kind Kind) Rules {
	if kind == KindText {
		return rs.Text
	}
	return rs.URL
}

func (rs RuleSet) Validate(in Input) error {
	switch in.Kind {
	case KindURL, KindText:
		return rs.For(in.Kind).Validate(in)
	}
	return &ValidationError{Err: ErrUnknownKind, Message: fmt.Sprintf("Unknown input kind %q.", in.Kind)}
}

func (r Rules) Validate(in Input) error {
	value := strings.TrimSpace(in.Value)
	n := utf8.RuneCountInString(in.Value)
	if value == "" {
		return &ValidationError{Err: ErrEmpty, Message: "Input is required."}
	}
	if r.CharacterLimit > 0 && n > r.CharacterLimit {
		return &ValidationError{Err: ErrTooLong, Message: fmt.Sprintf("Input must be less than %d characters.", r.CharacterLimit)}
	}
	if in.Kind == KindText {
		if utf8.RuneCountInString(value) < r.MinLength {
			return &ValidationError{Err: ErrTooShort, Message: fmt.Sprintf("Content must be at least %d characters.", r.MinLength)}
		}
		return nil
	}
	if r.RequiredPrefix != "" && !strings.HasPrefix(in.Value, r.RequiredPrefix) {
		return &ValidationError{Err: ErrMissingPrefix, Message: fmt.Sprintf("URL must start with %s.", r.RequiredPrefix)}
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Err: ErrInvalidURL, Message: "Please enter a valid URL."}
	}
	return nil
}

// Clamp drops characters past the limit, so the input can never exceed it.
func (r Rules) Clamp(value string) string {
	if r.CharacterLimit <= 0 || utf8.RuneCountInString(value) <= r.CharacterLimit {
		return value
	}
	return string([]rune(value)[:r.CharacterLimit])
}
