package domain

import "unicode/utf8"

const (
	// MaxNameLength is the longest display name, in bytes, that fits the wire name field.
	MaxNameLength = 31
	// MaxTextLength is the longest message body, in bytes, that fits the wire text field.
	MaxTextLength = 127
)

// Name is a display name bounded to MaxNameLength bytes.
type Name string

// Text is a message body bounded to MaxTextLength bytes.
type Text string

func NewName(s string) Name {
	return Name(truncate(s, MaxNameLength))
}

func NewText(s string) Text {
	return Text(truncate(s, MaxTextLength))
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
