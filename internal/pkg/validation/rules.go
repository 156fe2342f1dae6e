package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/qnaboard/internal/pkg/helpers"
)

// ScopeNameMaxLength bounds department and course names, in runes
var ScopeNameMaxLength = 200

// Register adds the custom tags used by request DTOs:
//
//	notblank   the string has a non-whitespace character
//	scopename  a department or course name, "!" standing for "/"
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("scopename", scopeName)
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		// Only fails for a malformed tag name
		panic(err)
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func scopeName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(helpers.DecodeScopeName(fl.Field().String()))
	return name != "" && utf8.RuneCountInString(name) <= ScopeNameMaxLength
}
