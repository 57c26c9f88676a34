package suite

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names so messages match the suite file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("predicate", func(fl validator.FieldLevel) bool {
		return Predicate(fl.Field().String()).Valid()
	})

	return v
}

// Validate checks the suite and returns every problem found, aggregated into
// a single error. A nil return means the suite can be run.
func Validate(s *Suite) error {
	if s == nil {
		return errors.New("suite is nil")
	}

	var result *multierror.Error

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				result = multierror.Append(result, fieldError(fe))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}

	seen := make(map[string]int, len(s.Cases))
	for i, tc := range s.Cases {
		if tc.Name != "" {
			if prev, ok := seen[tc.Name]; ok {
				result = multierror.Append(result, fmt.Errorf("cases[%d]: duplicate name %q (first used by cases[%d])", i, tc.Name, prev))
			} else {
				seen[tc.Name] = i
			}
		}

		for j, a := range tc.Assertions {
			if !a.Predicate.Valid() {
				continue // already reported by the struct rules
			}
			if a.Predicate.NeedsValue() && a.Value == nil {
				result = multierror.Append(result, fmt.Errorf("cases[%d].assertions[%d]: predicate %q requires a value", i, j, a.Predicate))
			}
			if a.Predicate == PredMatches {
				if _, err := regexp.Compile(fmt.Sprintf("%v", a.Value)); err != nil {
					result = multierror.Append(result, fmt.Errorf("cases[%d].assertions[%d]: invalid pattern: %w", i, j, err))
				}
			}
		}
	}

	return result.ErrorOrNil()
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Suite.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: is required", field)
	case "oneof":
		return fmt.Errorf("%s: %v is not one of [%s]", field, fe.Value(), fe.Param())
	case "predicate":
		return fmt.Errorf("%s: unknown predicate %q", field, fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Errorf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value())
	}
}
