package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every *Error through errors.Is.
var ErrInvalid = errors.New("invalid input")

// Error is a client-facing validation failure; Message is safe to return as-is.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return target == ErrInvalid }

func Errorf(msg string) error {
	return &Error{Message: msg}
}

// Message returns the client-facing text of a validation error.
func Message(err error) (string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Messages maps a failed rule to its client text. Keys are "Field.tag" or
// just "Field"; nested fields are dotted and slice indexes are dropped, so a
// failing `dive,max=30` on Tags[2] looks up "Tags.max" then "Tags".
type Messages map[string]string

// Messenger is implemented by validated structs that name their own texts.
type Messenger interface {
	ValidationMessages() Messages
}

var engine = validator.New(validator.WithRequiredStructEnabled())

// RegisterEnum adds a tag that accepts exactly the given values. Call it from
// init only; the engine is not safe to mutate while validating.
func RegisterEnum(tag string, values ...string) {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	err := engine.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	})
	if err != nil {
		panic(err)
	}
}

// Struct runs the `validate` tags of s and returns the first failure as an
// *Error worded by s's Messages.
func Struct(s any) error {
	err := engine.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	var msgs Messages
	if m, ok := s.(Messenger); ok {
		msgs = m.ValidationMessages()
	}
	fe := fieldErrs[0]
	key := fieldKey(fe.StructNamespace())
	if msg, ok := msgs[key+"."+fe.Tag()]; ok {
		return Errorf(msg)
	}
	if msg, ok := msgs[key]; ok {
		return Errorf(msg)
	}
	return Errorf("Invalid " + lowerFirst(indexPattern.ReplaceAllString(fe.Field(), "")))
}

// Var checks a single value against tag and reports msg when it fails.
func Var(value any, tag, msg string) error {
	err := engine.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return Errorf(msg)
	}
	return err
}

// StructValidator plugs the engine into fiber's body binding.
type StructValidator struct{}

func (StructValidator) Validate(out any) error { return Struct(out) }

var indexPattern = regexp.MustCompile(`\[[^\]]*\]`)

func fieldKey(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	return indexPattern.ReplaceAllString(ns, "")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
