package tags

import (
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/toko-pricing/internal/common"
)

// Separator splits a full tag into its prefix and code.
const Separator = ":"

// Reference links a classification value to a customer or address.
type Reference struct {
	TagID   string `json:"tag_id" validate:"required"`
	FullTag string `json:"full_tag" validate:"required"`
	Prefix  string `json:"prefix" validate:"required,kebab"`
	Code    string `json:"code" validate:"required,kebab"`
}

// BuildFullTag joins prefix and code. No validation is performed.
func BuildFullTag(prefix, code string) string {
	return prefix + Separator + code
}

// ParseFullTag splits s at the first colon. ok is false when there is no colon
// or when either side would be empty. The code may itself contain colons.
func ParseFullTag(s string) (prefix, code string, ok bool) {
	idx := strings.Index(s, Separator)
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// NewReference validates prefix and code and returns a reference with a fresh tag id.
func NewReference(prefix, code string) (Reference, error) {
	return NewReferenceWithID(uuid.NewString(), prefix, code)
}

// NewReferenceWithID is NewReference for tags already persisted under tagID.
func NewReferenceWithID(tagID, prefix, code string) (Reference, error) {
	ref := Reference{
		TagID:   strings.TrimSpace(tagID),
		FullTag: BuildFullTag(prefix, code),
		Prefix:  prefix,
		Code:    code,
	}
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// ParseReference builds a reference from a full tag string.
func ParseReference(tagID, fullTag string) (Reference, error) {
	prefix, code, ok := ParseFullTag(fullTag)
	if !ok {
		return Reference{}, common.NewAppError(CodeInvalidTag, "full tag must be in prefix:code form", ErrMalformedFullTag).
			WithDetails(map[string]string{"full_tag": fullTag})
	}
	return NewReferenceWithID(tagID, prefix, code)
}

// Validate checks the kebab-case segments and the prefix:code invariant.
func (r Reference) Validate() error {
	if err := validate.Struct(r); err != nil {
		return common.NewAppError(CodeInvalidTag, "tag reference is invalid", ErrInvalidSegment).
			WithDetails(fieldErrors(err))
	}
	if r.FullTag != BuildFullTag(r.Prefix, r.Code) {
		return common.NewAppError(CodeInvalidTag, "full tag does not match prefix and code", ErrFullTagMismatch).
			WithDetails(map[string]string{"full_tag": r.FullTag})
	}
	return nil
}
