package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Layouts for meeting slots as they travel over the wire and in the database.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// IsDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock reports whether s is a 24h HH:MM time of day.
func IsClock(s string) bool {
	if !timePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// Register adds the meeting slot tags ("meetingdate", "meetingtime") and the
// "notblank" tag to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"meetingdate": func(fl validator.FieldLevel) bool { return IsDate(fl.Field().String()) },
		"meetingtime": func(fl validator.FieldLevel) bool { return IsClock(fl.Field().String()) },
		"notblank":    func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var shared = newShared()

func newShared() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return shared.Struct(s)
}

// Describe flattens validator errors into one human-readable sentence.
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, FormatFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

// FormatFieldError creates a human-readable message for a single field
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "nefield":
		return e.Field() + " must differ from " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "meetingdate":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "meetingtime":
		return e.Field() + " must be a time in HH:MM format"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
