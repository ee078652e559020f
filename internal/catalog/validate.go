package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the structural problems found in a catalog
// submitted for publication.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

// Validate performs the publish-time structural checks: the three top-level
// collections must be present and every solution needs an id, a name and a
// category. Loading never calls this; readers stay tolerant.
func Validate(c *Catalog) error {
	if c == nil {
		return &ValidationError{Problems: []string{"catalog must be an object"}}
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating catalog: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	ns = strings.TrimPrefix(ns, "Catalog.")
	switch {
	case ns == "Categories":
		return "categories must be an array"
	case ns == "Features":
		return "features must be an object"
	case ns == "Solutions":
		return "solutions must be an array"
	case strings.HasPrefix(ns, "Solutions["):
		idx := ns[len("Solutions["):strings.Index(ns, "]")]
		return fmt.Sprintf("solution at index %s missing required field %s", idx, strings.ToLower(fe.Field()))
	default:
		return fmt.Sprintf("%s failed %q", ns, fe.Tag())
	}
}
