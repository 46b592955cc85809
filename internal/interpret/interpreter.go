package interpret

import (
	"strings"

	"voicedash/internal/domain"
)

// DefaultDestination is used when a navigation command carries no destination.
const DefaultDestination = "Gas station"

// DefaultRegion is the phone-number region used when none is configured.
const DefaultRegion = "US"

// Interpreter classifies raw utterance text into a structured command using a
// fixed, ordered rule set. It holds no mutable state and is safe for
// concurrent use.
type Interpreter struct {
	region string
}

// New creates an interpreter whose phone-number plausibility check uses the
// given region code (e.g. "US", "DE"). The region is fixed at construction so
// identical input always yields an identical command.
func New(region string) *Interpreter {
	if strings.TrimSpace(region) == "" {
		region = DefaultRegion
	}
	return &Interpreter{region: region}
}

var navigatePrefixes = []string{"navigate", "directions", "go to"}

// navigateStrips are removed in this exact order; longer forms first so that
// "navigate to" is not left as a dangling "to".
var navigateStrips = []string{"navigate to", "navigate", "directions to", "directions", "go to"}

var messagePrefixes = []string{"message", "text", "sms"}

// messageKeywords are each removed at their first occurrence only. Later
// occurrences survive on purpose; the source behaved this way and callers
// depend on the parse being stable, not clever.
var messageKeywords = []string{"message", "text", "sms"}

// Interpret maps utterance text to exactly one command. The first matching
// rule wins; unmatched text falls through to an unknown command carrying the
// original casing.
func (i *Interpreter) Interpret(text string) domain.Command {
	lower := strings.ToLower(text)

	switch {
	case hasAnyPrefix(lower, navigatePrefixes):
		return i.interpretNavigate(lower)
	case strings.HasPrefix(lower, "call"):
		return i.interpretCall(lower)
	case hasAnyPrefix(lower, messagePrefixes):
		return i.interpretMessage(lower)
	case strings.Contains(lower, "spotify") || strings.HasPrefix(lower, "music") || strings.Contains(lower, "play"):
		return domain.Command{Kind: domain.CommandPlayMedia}
	case strings.Contains(lower, "whatsapp"):
		return domain.Command{Kind: domain.CommandOpenChat}
	default:
		return domain.Command{Kind: domain.CommandUnknown, RawText: text}
	}
}

func (i *Interpreter) interpretNavigate(lower string) domain.Command {
	destination := lower
	for _, literal := range navigateStrips {
		destination = strings.ReplaceAll(destination, literal, "")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		destination = DefaultDestination
	}
	return domain.Command{Kind: domain.CommandNavigate, Destination: destination}
}

func (i *Interpreter) interpretCall(lower string) domain.Command {
	target := strings.TrimSpace(strings.TrimPrefix(lower, "call"))
	if target == "" {
		return domain.Command{Kind: domain.CommandCall}
	}

	filtered := filterDialable(target)
	if i.plausibleNumber(filtered) {
		return domain.Command{Kind: domain.CommandCall, Number: filtered}
	}

	// Contact names would need a directory lookup; fall back to the bare dialer.
	return domain.Command{Kind: domain.CommandCall}
}

func (i *Interpreter) interpretMessage(lower string) domain.Command {
	cleaned := lower
	for _, keyword := range messageKeywords {
		cleaned = strings.Replace(cleaned, keyword, "", 1)
	}
	cleaned = strings.TrimSpace(cleaned)

	tokens := strings.Fields(cleaned)
	if len(tokens) > 0 {
		number := filterDialable(tokens[0])
		if i.plausibleNumber(number) {
			return domain.Command{
				Kind:   domain.CommandMessage,
				Number: number,
				Body:   strings.Join(tokens[1:], " "),
			}
		}
	}

	return domain.Command{Kind: domain.CommandMessage, Body: cleaned}
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}
