package royale

import (
	"encoding/json"
	"errors"
	"strings"
)

// RoundPayload is the loosely structured output of a narrative generator.
// Nothing in it is trusted; BuildRound repairs it against the session state
// before it can touch the ledger.
type RoundPayload struct {
	FactionDescriptions map[string]string    `json:"faction_descriptions"`
	FactionChanges      []FactionChangeEvent `json:"faction_changes"`
	Eliminated          []EliminationEvent   `json:"eliminated"`
	Survivors           []string             `json:"survivors"`
	Narrative           string               `json:"narrative"`
}

// rawRoundPayload defers field decoding so a single malformed field cannot
// sink the whole payload.
type rawRoundPayload struct {
	FactionDescriptions json.RawMessage `json:"faction_descriptions"`
	FactionChanges      json.RawMessage `json:"faction_changes"`
	Eliminated          json.RawMessage `json:"eliminated"`
	Survivors           json.RawMessage `json:"survivors"`
	Narrative           json.RawMessage `json:"narrative"`
}

var errEmptyPayload = errors.New("empty round payload")

// DecodeRoundPayload parses generator output into a RoundPayload, coercing
// wrong-shaped fields to safe defaults. It fails only when the input is not
// a JSON object at all; per-field garbage degrades to empty values.
func DecodeRoundPayload(data []byte) (*RoundPayload, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errEmptyPayload
	}
	var raw rawRoundPayload
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, err
	}

	p := &RoundPayload{
		FactionDescriptions: map[string]string{},
	}
	if len(raw.FactionDescriptions) > 0 {
		var m map[string]string
		if err := json.Unmarshal(raw.FactionDescriptions, &m); err == nil && m != nil {
			p.FactionDescriptions = m
		}
	}
	if len(raw.FactionChanges) > 0 {
		var fc []FactionChangeEvent
		if err := json.Unmarshal(raw.FactionChanges, &fc); err == nil {
			p.FactionChanges = fc
		}
	}
	if len(raw.Eliminated) > 0 {
		var el []EliminationEvent
		if err := json.Unmarshal(raw.Eliminated, &el); err == nil {
			p.Eliminated = el
		}
	}
	if len(raw.Survivors) > 0 {
		var sv []string
		if err := json.Unmarshal(raw.Survivors, &sv); err == nil {
			p.Survivors = sv
		}
	}
	p.Narrative = coerceText(raw.Narrative)
	return p, nil
}

// coerceText accepts only a JSON string; structured values masquerading as
// narrative are discarded rather than propagated verbatim.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Empty reports whether the payload carries no usable content, which the
// advancer treats the same as a generator failure.
func (p *RoundPayload) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.FactionDescriptions) == 0 &&
		len(p.FactionChanges) == 0 &&
		len(p.Eliminated) == 0 &&
		len(p.Survivors) == 0 &&
		strings.TrimSpace(p.Narrative) == ""
}
