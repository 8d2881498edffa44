// Package validation checks request payloads against their struct tags and
// reports every violated field, in declaration order, using JSON field names.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagRating bounds a rating to [0,5] and reports both bounds with one message.
const tagRating = "rating"

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of field violations. It is returned as an error
// so callers can short-circuit before touching the store.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field is among the violations.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validator wraps a go-playground validator configured to report JSON names.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	v.RegisterAlias(tagRating, "gte=0,lte=5")
	return &Validator{validate: v}
}

// Struct validates s and returns nil when every rule holds.
func (v *Validator) Struct(s any) Errors {
	return v.Check(s, nil)
}

// Check validates s, folding in a decode error produced while parsing s from
// JSON. Each type mismatch on a field (e.g. a fractional stock) is reported as
// a violation of that field instead of its generic rules.
func (v *Validator) Check(s any, decodeErr error) Errors {
	var errs Errors

	if err := v.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Errors{{Field: "", Message: err.Error()}}
		}
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: fe.Field(), Message: message(fe)})
		}
	}

	if typeErrs := FieldTypeErrors(decodeErr); len(typeErrs) > 0 {
		for _, fe := range typeErrs {
			errs = errs.replace(fe)
		}
		errs.sortBy(fieldOrder(s))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FieldTypeError converts a JSON type mismatch on a named field into a
// FieldError. It returns false for syntax errors and mismatches on the
// document root, which are malformed payloads rather than bad fields.
func FieldTypeError(err error) (FieldError, bool) {
	var typeErr *json.UnmarshalTypeError
	if err == nil || !errors.As(err, &typeErr) || typeErr.Field == "" {
		return FieldError{}, false
	}

	t := typeErr.Type
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var want string
	switch {
	case t == nil:
		want = "a valid value"
	case t.Kind() == reflect.String:
		want = "a string"
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		want = "an integer"
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		want = "a number"
	default:
		want = "a valid " + t.Kind().String()
	}

	return FieldError{
		Field:   typeErr.Field,
		Message: fmt.Sprintf("%s must be %s", typeErr.Field, want),
	}, true
}

// FieldTypeErrors is FieldTypeError applied to every error joined into err,
// as returned by DecodeJSON.
func FieldTypeErrors(err error) Errors {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var errs Errors
		for _, e := range joined.Unwrap() {
			errs = append(errs, FieldTypeErrors(e)...)
		}
		return errs
	}
	if fe, ok := FieldTypeError(err); ok {
		return Errors{fe}
	}
	return nil
}

// DecodeJSON decodes a JSON object into the struct dst points to one field at
// a time, so a mismatch on one field does not hide mismatches on the others.
// Fields that decode cleanly are set. The returned error joins one
// *json.UnmarshalTypeError per mismatched field, or is the parse error when
// data is not a JSON object.
func DecodeJSON(data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: DecodeJSON needs a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	var typeErrs []error
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := jsonName(sf)
		if name == "" || !sf.IsExported() {
			continue
		}
		value, ok := lookup(raw, name)
		if !ok {
			continue
		}

		target := reflect.New(sf.Type)
		if err := json.Unmarshal(value, target.Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return err
			}
			typeErr.Field = name
			typeErrs = append(typeErrs, typeErr)
			continue
		}
		rv.Field(i).Set(target.Elem())
	}
	return errors.Join(typeErrs...)
}

// lookup matches keys the way encoding/json does: exact first, then case-insensitively.
func lookup(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if value, ok := raw[name]; ok {
		return value, true
	}
	for key, value := range raw {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return nil, false
}

func (e Errors) replace(fe FieldError) Errors {
	out := make(Errors, 0, len(e)+1)
	for _, existing := range e {
		if existing.Field != fe.Field {
			out = append(out, existing)
		}
	}
	return append(out, fe)
}

func (e Errors) sortBy(order map[string]int) {
	sort.SliceStable(e, func(i, j int) bool {
		return order[e[i].Field] < order[e[j].Field]
	})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fe.Field() + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case tagRating:
		return fe.Field() + " must be between 0 and 5"
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func fieldOrder(s any) map[string]int {
	order := make(map[string]int)
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return order
	}
	for i := 0; i < t.NumField(); i++ {
		order[jsonName(t.Field(i))] = i
	}
	return order
}
