// Package normalize converts wire bodies into typed requests and backend
// results into the stable per-capability JSON shapes.
package normalize

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/celeste-ai/gateway/internal/types"
)

// MaxBodyBytes bounds a request body. Edit requests carry base64 images.
const MaxBodyBytes = 32 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads a JSON body into dst and validates it. The first violation
// is returned as a *types.FieldError. An empty body is treated as {} so the
// first required field is reported missing.
func Decode(r io.Reader, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		// A truncated or stalled upload is the client's failure.
		return types.InvalidField("body", "request body could not be read")
	}
	if len(data) > MaxBodyBytes {
		return types.InvalidField("body", "request body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return types.InvalidField(typeErr.Field, "expected "+jsonKind(typeErr.Type))
		}
		return types.InvalidField("body", "malformed JSON")
	}
	return Validate(dst)
}

// Validate checks the struct tags of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return types.MissingField(fe.Field())
	}
	return types.InvalidField(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	}
	return t.String()
}

// DecodeImage decodes a base64 image field. A "data:<mime>;base64," prefix
// is stripped and unpadded input is accepted.
func DecodeImage(field, s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, types.InvalidField(field, "malformed data URL")
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		return nil, types.InvalidField(field, "not valid base64")
	}
	if len(data) == 0 {
		return nil, types.InvalidField(field, "empty image")
	}
	return data, nil
}
