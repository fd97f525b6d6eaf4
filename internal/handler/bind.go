package handler

import (
	stderrors "errors"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/abdularham/clinic-api/pkg/errors"
)

const invalidFieldsMessage = "One of the fields is not correct"

// Bind decodes the JSON body into dst and converts validator failures into
// a structured field error list. Malformed JSON gets the same generic
// message with no field list.
func Bind(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation(invalidFieldsMessage, nil)
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.FieldError{
			Field:   snakeCase(fe.Field()),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe.Tag()),
		})
	}
	return errors.Validation(invalidFieldsMessage, fields)
}

func ruleMessage(rule string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "alpha":
		return "must contain only letters"
	default:
		return "is invalid"
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(field[i-1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
