package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// EntryInput is the loosely-shaped wire payload for create and partial
// update. It accepts the documented aliases (date for entry_date, note for
// description); unknown fields are rejected.
type EntryInput struct {
	EntryDate   *string          `json:"entry_date"`
	Date        *string          `json:"date"`
	Kind        *string          `json:"kind"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Note        *string          `json:"note"`
}

// ErrMalformedPayload reports an undecodable request body.
var ErrMalformedPayload = errors.New("malformed payload")

// FieldError carries the offending field for boundary reporting.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

// DecodeEntryInput strictly decodes a JSON payload. Unknown fields surface as
// a FieldError naming the field, anything else undecodable as
// ErrMalformedPayload.
func DecodeEntryInput(r io.Reader) (EntryInput, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var in EntryInput
	if err := dec.Decode(&in); err != nil {
		if field, ok := unknownField(err); ok {
			return EntryInput{}, &FieldError{Field: field, Err: errors.New("unknown field")}
		}
		return EntryInput{}, ErrMalformedPayload
	}
	return in, nil
}

// EntryDateValue resolves the entry_date/date alias pair. The canonical name
// wins when both are present.
func (in EntryInput) EntryDateValue() *string {
	if in.EntryDate != nil {
		return in.EntryDate
	}
	return in.Date
}

// DescriptionValue resolves the description/note alias pair.
func (in EntryInput) DescriptionValue() *string {
	if in.Description != nil {
		return in.Description
	}
	return in.Note
}

func unknownField(err error) (string, bool) {
	const marker = "unknown field "
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	field := strings.Trim(msg[idx+len(marker):], `"`)
	return field, true
}
