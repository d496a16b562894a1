// SPDX-License-Identifier: MIT

package calculator

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format names a hyperparameter document syntax.
type Format string

// Supported documents. JSON is the canonical form kept by a Calculator.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseParameters converts a hyperparameter document to canonical JSON.
// JSON input is returned unchanged; YAML and TOML are decoded to a generic
// tree and re-encoded, so the result can be passed to New.
//
// Errors:
//   - ErrInvalidParameter for an unknown format or a document that does not
//     parse.
func ParseParameters(format Format, data []byte) (string, error) {
	var tree map[string]any
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return "", errors.Wrap(ErrInvalidParameter, "json error: malformed document")
		}

		return string(data), nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return "", errors.Wrapf(ErrInvalidParameter, "yaml error: %v", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return "", errors.Wrapf(ErrInvalidParameter, "toml error: %v", err)
		}
	default:
		return "", errors.WithHintf(errors.Wrapf(ErrInvalidParameter, "format %q", format),
			"use one of %q, %q or %q", FormatJSON, FormatYAML, FormatTOML)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidParameter, "json error: %v", err)
	}

	return string(out), nil
}

// NewFromFile reads a hyperparameter document, picks its format from the
// file extension (.json, .yaml, .yml, .toml) and calls New.
func NewFromFile(kind, path string, opts ...Option) (*Calculator, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "cannot infer the format of %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading hyperparameters")
	}
	parameters, err := ParseParameters(format, data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return New(kind, parameters, opts...)
}

// validate checks hyperparameter structs. Field names in its errors are the
// JSON names.
var validate = newValidator()

type variantCounter interface {
	variants() int
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}

		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		if vc, ok := sl.Current().Interface().(variantCounter); ok && vc.variants() != 1 {
			sl.ReportError(sl.Current().Interface(), "", "", "variant", "")
		}
	}, RadialBasis{}, CutoffFunction{}, RadialScaling{})

	return v
}

// decodeParameters fills target from a JSON document.
// MAIN DESCRIPTION:
//   - Strict decoding followed by presence and range validation.
//
// Implementation:
//   - Stage 1: decode with unknown fields rejected (type errors name the field).
//   - Stage 2: every field without omitempty in its json tag must be present.
//   - Stage 3: validator tags, plus exactly one variant per tagged choice.
//
// Errors:
//   - ErrInvalidParameter naming the offending field.
func decodeParameters(parameters string, target any) error {
	dec := json.NewDecoder(strings.NewReader(parameters))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return errors.Wrapf(ErrInvalidParameter, "json error: %v", err)
	}
	if dec.More() {
		return errors.Wrap(ErrInvalidParameter, "json error: trailing data after the document")
	}
	if err := checkRequired(json.RawMessage(parameters), reflect.TypeOf(target), ""); err != nil {
		return err
	}
	if err := validate.Struct(target); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return describeFieldError(fieldErrors[0])
		}

		return errors.Wrapf(ErrInvalidParameter, "%v", err)
	}

	return nil
}

// checkRequired walks the JSON object alongside type t and reports the first
// missing field whose json tag has no omitempty.
func checkRequired(raw json.RawMessage, t reflect.Type, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		// null or type mismatches were already reported by the decoder
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		value, ok := fields[name]
		if !ok {
			if strings.Contains(opts, "omitempty") {
				continue
			}

			return errors.Wrapf(ErrInvalidParameter, "missing field `%s%s`", path, name)
		}
		if err := checkRequired(bytes.TrimSpace(value), f.Type, path+name+"."); err != nil {
			return err
		}
	}

	return nil
}

func describeFieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	field = strings.TrimSuffix(field, ".")

	var what string
	switch fe.Tag() {
	case "gt":
		what = "must be greater than " + fe.Param()
	case "gte":
		what = "must be at least " + fe.Param()
	case "eq":
		what = "must be " + fe.Param()
	case "variant":
		what = "must hold exactly one variant"
	default:
		what = "failed the " + fe.Tag() + " check"
	}
	if fe.Tag() == "variant" {
		return errors.Wrapf(ErrInvalidParameter, "%s: %s", field, what)
	}

	return errors.Wrapf(ErrInvalidParameter, "%s: %s, got %v", field, what, fe.Value())
}
