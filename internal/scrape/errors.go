package scrape

import "fmt"

// ParseError means a fetched page did not match the expected shape. The
// player is abandoned for the current job; Sample carries a fragment of the
// offending document for diagnostics.
type ParseError struct {
	URL    string
	Reason string
	Sample string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

// LookupError means a player could not be resolved to an external id on the
// source site. Existing data for the player is left untouched.
type LookupError struct {
	PlayerName string
	Reason     string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %s", e.PlayerName, e.Reason)
}

// newParseError trims the sample so diagnostics stay log-sized.
func newParseError(url, reason, sample string) *ParseError {
	const maxSample = 300
	if len(sample) > maxSample {
		sample = sample[:maxSample] + "..."
	}
	return &ParseError{URL: url, Reason: reason, Sample: sample}
}
