package csvimport

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the accepted date format for date columns
const DateLayout = "2006-01-02"

// FieldType names the type a column is coerced to
type FieldType string

// Supported field types
const (
	TypeInt     FieldType = "integer"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

var errBlank = errors.New("value is blank")

// Int parses the column as a base-10 integer. Surrounding whitespace is ignored.
func (r *Row) Int(column string) (int, error) {
	raw := r.Get(column)
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, r.fieldError(column, raw, TypeInt, errBlank)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, r.fieldError(column, raw, TypeInt, err)
	}
	return n, nil
}

// Decimal parses the column as an exact decimal. Surrounding whitespace is ignored.
func (r *Row) Decimal(column string) (decimal.Decimal, error) {
	raw := r.Get(column)
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, r.fieldError(column, raw, TypeDecimal, errBlank)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, r.fieldError(column, raw, TypeDecimal, err)
	}
	return d, nil
}

// Date parses the column as a calendar date in DateLayout, in UTC
func (r *Row) Date(column string) (time.Time, error) {
	raw := r.Get(column)
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, r.fieldError(column, raw, TypeDate, errBlank)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, r.fieldError(column, raw, TypeDate, err)
	}
	return t, nil
}

func (r *Row) fieldError(column, value string, typ FieldType, err error) *FieldError {
	return &FieldError{
		Line:   r.LineNumber,
		Column: column,
		Value:  value,
		Type:   typ,
		Err:    err,
	}
}
