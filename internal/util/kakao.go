package util

import "strings"

const (
	seeMorePadding = 500
	zeroWidthSpace = "​"
)

// ApplySeeMorePadding pads a long message with zero-width characters so the
// chat app collapses it behind "see more", showing only the instruction line.
func ApplySeeMorePadding(text, instruction string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	header := strings.TrimSpace(instruction)

	var b strings.Builder
	b.Grow(len(text) + seeMorePadding + len(header) + 2)
	if header != "" {
		b.WriteString(header)
	}
	b.WriteString(strings.Repeat(zeroWidthSpace, seeMorePadding))
	if !strings.HasPrefix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(text)
	return b.String()
}
