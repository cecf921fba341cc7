package tags

import (
	"errors"
	"regexp"

	validator "github.com/go-playground/validator/v10"
)

// CodeInvalidTag is the AppError code reported for malformed tag input.
const CodeInvalidTag = "invalid_tag"

var (
	// ErrMalformedFullTag is returned when a full tag has no usable colon split.
	ErrMalformedFullTag = errors.New("tags: malformed full tag")
	// ErrInvalidSegment is returned when a prefix or code is not kebab-case.
	ErrInvalidSegment = errors.New("tags: prefix and code must be kebab-case")
	// ErrFullTagMismatch is returned when full_tag differs from prefix:code.
	ErrFullTagMismatch = errors.New("tags: full tag does not match prefix and code")
)

var kebabPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("kebab", func(fl validator.FieldLevel) bool {
		return kebabPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsValidPrefix reports whether s is a kebab-case classification prefix.
func IsValidPrefix(s string) bool {
	return validate.Var(s, "required,kebab") == nil
}

// IsValidCode reports whether s is a kebab-case classification code.
func IsValidCode(s string) bool {
	return validate.Var(s, "required,kebab") == nil
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
