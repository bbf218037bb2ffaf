// Package extract recovers ticket records from loosely-structured model
// output. The reply is supposed to be pure JSON of shape {"tickets": [...]},
// but model output is not contractually reliable: it may arrive as an
// already structured value, as JSON wrapped in prose, or as a bare array.
// The extractor is maximum-effort recovery, not validation.
package extract

import (
	"encoding/json"
	"strings"
)

// Outcome tags which recovery strategy produced the tickets.
type Outcome string

const (
	// OutcomeStructured means the message was already a structured value
	// with a tickets key.
	OutcomeStructured Outcome = "structured"

	// OutcomeObject means a JSON object with a tickets key was parsed from
	// the message string (strictly or after slicing between braces).
	OutcomeObject Outcome = "object"

	// OutcomeArray means a bare JSON array was parsed from the message
	// string after slicing between brackets.
	OutcomeArray Outcome = "array"

	// OutcomeUnrecoverable means no strategy yielded tickets. Not an error:
	// the caller decides how to report it.
	OutcomeUnrecoverable Outcome = "unrecoverable"
)

// Record is one raw ticket record as the model emits it.
type Record struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// Result is the outcome of one extraction attempt.
type Result struct {
	Records []Record
	Outcome Outcome
}

// Recovered reports whether any strategy yielded a ticket list.
func (r Result) Recovered() bool {
	return r.Outcome != OutcomeUnrecoverable
}

// Tickets applies the ordered fallback strategies to a query response
// message and returns the first successful recovery. It never fails: a
// message with no recoverable JSON yields OutcomeUnrecoverable and an empty
// record list.
func Tickets(message interface{}) Result {
	switch msg := message.(type) {
	case map[string]interface{}:
		if records, ok := recordsFromValue(msg["tickets"]); ok {
			return Result{Records: records, Outcome: OutcomeStructured}
		}
	case string:
		if records, ok := ticketsFromString(msg); ok {
			return Result{Records: records, Outcome: OutcomeObject}
		}
		if records, ok := arrayFromString(msg); ok {
			return Result{Records: records, Outcome: OutcomeArray}
		}
	}
	return Result{Outcome: OutcomeUnrecoverable}
}

// ticketsFromString tries a strict parse of the whole string, then a slice
// between the first '{' and the last '}'. Both must yield an object with a
// tickets key.
func ticketsFromString(msg string) ([]Record, bool) {
	if records, ok := objectWithTickets(msg); ok {
		return records, true
	}

	start := strings.Index(msg, "{")
	end := strings.LastIndex(msg, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	return objectWithTickets(msg[start : end+1])
}

// arrayFromString slices between the first '[' and the last ']' and accepts
// any JSON array of ticket-shaped records, no tickets wrapper expected.
func arrayFromString(msg string) ([]Record, bool) {
	start := strings.Index(msg, "[")
	end := strings.LastIndex(msg, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}

	var records []Record
	if err := json.Unmarshal([]byte(msg[start:end+1]), &records); err != nil {
		return nil, false
	}
	return records, true
}

func objectWithTickets(s string) ([]Record, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &envelope); err != nil {
		return nil, false
	}

	raw, ok := envelope["tickets"]
	if !ok {
		return nil, false
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

// recordsFromValue converts an already decoded tickets value (a
// []interface{} of maps) back into records via a JSON round trip.
func recordsFromValue(v interface{}) ([]Record, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, false
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	return records, true
}
