package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// iconTag is the validation tag for category icon tokens.
const iconTag = "icon"

// NewValidator returns a validator with the notebook's custom tags
// registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(iconTag, func(fl validator.FieldLevel) bool {
		return types.IsValidIcon(fl.Field().String())
	})
	return v
}

// CategorySpec is the input for creating a category. Fields are free-text
// labels; each is normalized into a FieldID.
type CategorySpec struct {
	Name   string   `json:"name" validate:"required,max=64"`
	Icon   string   `json:"icon" validate:"omitempty,icon"`
	Fields []string `json:"fields"`
}

// validateSpec checks spec and wraps failures in types.ErrInvalidCategory.
func (n *Notebook) validateSpec(spec CategorySpec) error {
	err := n.validate.Struct(spec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", types.ErrInvalidCategory, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", types.ErrInvalidCategory, err)
}

// checkValues verifies that every key of values is in schema and that every
// value is a supported scalar.
func checkValues(schema types.Schema, values types.Values) error {
	var unknown []types.FieldID
	for k, v := range values {
		if k == types.ReservedField {
			return fmt.Errorf("%w: record values cannot set %q", types.ErrReservedField, k)
		}
		if !schema.Has(k) {
			unknown = append(unknown, k)
			continue
		}
		if !types.IsSupportedValue(v) {
			return fmt.Errorf("%w: field %q has type %T", types.ErrInvalidValue, k, v)
		}
	}
	if len(unknown) > 0 {
		sortFields(unknown)
		return &types.UnknownFieldError{Fields: unknown}
	}
	return nil
}

// compact copies values without nil entries.
func compact(values types.Values) types.Values {
	out := make(types.Values, len(values))
	for k, v := range values {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
