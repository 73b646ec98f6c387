package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/devlinkhq/devlink-api/pkg/response"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6") // password minimum length
	}
}

// ToMessages converts binding errors into the errors-array message shape.
// Custom carries per-field messages declared by the route, in the style of
// field-level validation chains; fields without one fall back to a generic
// formatted message.
func ToMessages(err error, custom map[string]string) []response.Message {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []response.Message{{Msg: "Invalid payload"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.Message, 0, len(verrs))
		for _, fe := range verrs {
			if msg, ok := custom[fe.Field()]; ok {
				out = append(out, response.Message{Msg: msg})
				continue
			}
			out = append(out, response.Message{Msg: fe.Field() + " " + formatFieldError(fe)})
		}
		return out
	}

	return []response.Message{{Msg: "Invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min", "pwd":
		return "is too short"
	case "max":
		return "is too long"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
