package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "income", want: KindIncome},
		{in: "expense", want: KindExpense},
		{in: "in", want: KindIncome},
		{in: "out", want: KindExpense},
		{in: "INCOME", want: KindIncome},
		{in: " Expense ", want: KindExpense},
		{in: "revenue", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKind, "input %q", tc.in)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.345", want: "12.35"},
		{in: "12.344", want: "12.34"},
		{in: "0.005", want: "0.01"},
		{in: "100", want: "100.00"},
		{in: "0", wantErr: true},
		{in: "-3.50", wantErr: true},
	}

	for _, tc := range cases {
		got, err := NormalizeAmount(decimal.RequireFromString(tc.in))
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got.StringFixed(2), "input %q", tc.in)
	}
}

func TestParseEntryDate(t *testing.T) {
	got, err := ParseEntryDate("2025-02-28")
	assert.NoError(t, err)
	assert.Equal(t, "2025-02-28", got.Format(DateLayout))

	_, err = ParseEntryDate("28/02/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseEntryDate("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseEntryDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDecodeEntryInputAliases(t *testing.T) {
	in, err := DecodeEntryInput(strings.NewReader(`{"date":"2025-01-15","kind":"in","amount":12.5,"note":"coffee"}`))
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-15", *in.EntryDateValue())
	assert.Equal(t, "coffee", *in.DescriptionValue())

	// The canonical name wins when both spellings appear.
	in, err = DecodeEntryInput(strings.NewReader(`{"entry_date":"2025-01-16","date":"2025-01-15","description":"lunch","note":"coffee"}`))
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-16", *in.EntryDateValue())
	assert.Equal(t, "lunch", *in.DescriptionValue())
}

func TestDecodeEntryInputRejectsUnknownField(t *testing.T) {
	_, err := DecodeEntryInput(strings.NewReader(`{"entry_date":"2025-01-15","kind":"income","amount":1,"color":"red"}`))

	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "color", fieldErr.Field)
}

func TestDecodeEntryInputMalformed(t *testing.T) {
	_, err := DecodeEntryInput(strings.NewReader(`{"entry_date":`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = DecodeEntryInput(strings.NewReader(`[1,2]`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
