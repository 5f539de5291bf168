package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Item is a priced line used for recipe costing.
type Item struct {
	ID                 int64   `json:"id"`
	Nome               string  `json:"nome"`
	Categoria          string  `json:"categoria"`
	QuantidadeBase     float64 `json:"quantidade_base"`
	TipoQuantidade     string  `json:"tipo_quantidade"`
	PrecoPorQuantidade float64 `json:"preco_por_quantidade"`
}

// Item categories.
const (
	CategoryIngredient = "ingredient"
	CategoryLabor      = "labor"
	CategoryOtherCost  = "other_cost"
)

// Categories lists every valid category.
var Categories = []string{CategoryIngredient, CategoryLabor, CategoryOtherCost}

// ErrNotNumeric is returned when a numeric field holds a value that is not a
// number or a numeric string.
var ErrNotNumeric = errors.New("value is not numeric")

// Field is a raw JSON value that remembers whether its key was present.
// A JSON null counts as absent.
type Field struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.raw = nil
		return nil
	}
	f.raw = append(f.raw[:0], b...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	if f.raw == nil {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Present reports whether the field was set to a non-null value.
func (f Field) Present() bool {
	return f.raw != nil
}

// AsString returns the field as a string. ok is false when the field is
// absent or holds anything other than a JSON string.
func (f Field) AsString() (s string, ok bool) {
	if !f.Present() {
		return "", false
	}
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsNumber returns the field as a float64. Both JSON numbers and numeric
// strings are accepted. ok is false when the field is absent; err is
// ErrNotNumeric when the field is present but cannot be read as a finite number.
func (f Field) AsNumber() (n float64, ok bool, err error) {
	if !f.Present() {
		return 0, false, nil
	}
	if err := json.Unmarshal(f.raw, &n); err == nil {
		return n, true, nil
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return 0, true, ErrNotNumeric
	}
	n, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, true, ErrNotNumeric
	}
	return n, true, nil
}

// StringField builds a present Field holding s.
func StringField(s string) Field {
	b, _ := json.Marshal(s)
	return Field{raw: b}
}

// NumberField builds a present Field holding n.
func NumberField(n float64) Field {
	b, _ := json.Marshal(n)
	return Field{raw: b}
}

// ItemInput is the body of a create or update request before validation.
type ItemInput struct {
	Nome               Field `json:"nome"`
	Categoria          Field `json:"categoria"`
	QuantidadeBase     Field `json:"quantidade_base"`
	TipoQuantidade     Field `json:"tipo_quantidade"`
	PrecoPorQuantidade Field `json:"preco_por_quantidade"`
}
