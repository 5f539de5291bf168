// Package validate checks item candidates against the field rules.
//
// Rules run in a fixed order and the first failure wins, so a payload that
// breaks several rules always reports the same message.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/precificacao/internal/model"
)

// Rule messages, in evaluation order.
const (
	MsgNameRequired     = "name required"
	MsgInvalidCategory  = "invalid category"
	MsgQuantityPositive = "base quantity must be greater than zero"
	MsgUnitRequired     = "unit required"
	MsgPriceNegative    = "price cannot be negative"
)

// Values used in place of absent numeric fields. An absent quantity fails
// the "> 0" rule and an absent price fails the ">= 0" rule.
const (
	absentQuantity = 0
	absentPrice    = -1
)

// ErrNotNumeric is returned when a numeric field is present but not a number.
var ErrNotNumeric = model.ErrNotNumeric

// ValidationError reports the first field rule that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	if err := val.RegisterValidation("item_category", validateCategory); err != nil {
		panic(fmt.Sprintf("registering item_category validation: %v", err))
	}
	return val
}

func validateCategory(fl validator.FieldLevel) bool {
	return slices.Contains(model.Categories, fl.Field().String())
}

// Validate checks in and returns the first rule failure, if any.
func Validate(in model.ItemInput) error {
	_, err := Item(in)
	return err
}

// Item checks in and returns the normalized item: name and unit trimmed,
// numeric fields parsed. The returned item has no ID.
func Item(in model.ItemInput) (model.Item, error) {
	var item model.Item

	nome, _ := in.Nome.AsString()
	item.Nome = strings.TrimSpace(nome)
	if v.Var(item.Nome, "required") != nil {
		return model.Item{}, fail("nome", MsgNameRequired)
	}

	item.Categoria, _ = in.Categoria.AsString()
	if v.Var(item.Categoria, "item_category") != nil {
		return model.Item{}, fail("categoria", MsgInvalidCategory)
	}

	qty, err := number(in.QuantidadeBase, absentQuantity)
	if err != nil {
		return model.Item{}, err
	}
	if v.Var(qty, "gt=0") != nil {
		return model.Item{}, fail("quantidade_base", MsgQuantityPositive)
	}
	item.QuantidadeBase = qty

	unit, _ := in.TipoQuantidade.AsString()
	item.TipoQuantidade = strings.TrimSpace(unit)
	if v.Var(item.TipoQuantidade, "required") != nil {
		return model.Item{}, fail("tipo_quantidade", MsgUnitRequired)
	}

	price, err := number(in.PrecoPorQuantidade, absentPrice)
	if err != nil {
		return model.Item{}, err
	}
	if v.Var(price, "gte=0") != nil {
		return model.Item{}, fail("preco_por_quantidade", MsgPriceNegative)
	}
	item.PrecoPorQuantidade = price

	return item, nil
}

// number reads f, substituting absent when the field is missing.
func number(f model.Field, absent float64) (float64, error) {
	n, ok, err := f.AsNumber()
	if err != nil {
		return 0, err
	}
	if !ok {
		return absent, nil
	}
	return n, nil
}

func fail(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a field rule failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
