package validators

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
)

// MaxBodyBytes caps every JSON body read through DecodeJSONBody.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

// enumTags back the catalog enum tags (validate:"media_type" and friends)
// with the same parsers the services use.
var enumTags = map[string]func(string) error{
	"media_type": func(v string) error { _, err := enums.ParseMediaType(v); return err },
	"image_type": func(v string) error { _, err := enums.ParseImageType(v); return err },
	"video_type": func(v string) error { _, err := enums.ParseVideoType(v); return err },
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	for tag, parse := range enumTags {
		parse := parse
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return parse(strings.TrimSpace(fl.Field().String())) == nil
		})
	}
	return v
}

// DecodeJSONBody decodes exactly one JSON document into dest and runs struct
// validation. Unknown fields, trailing data and bodies over MaxBodyBytes are
// rejected.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return bodyError(err)
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must hold a single JSON document")
	}
	return ValidateStruct(dest)
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return pkgerrors.Newf(pkgerrors.CodeValidation, "request body exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is empty")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
}

// ValidateStruct runs the tag validation used by DecodeJSONBody on a value
// built some other way, such as from query parameters.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid url"
	case "media_type", "image_type", "video_type":
		return "is not a recognised " + strings.ReplaceAll(fe.Tag(), "_", " ")
	}
	return "is invalid"
}
