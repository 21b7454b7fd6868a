package observability

import (
	"errors"

	"github.com/specialistvlad/odegrid/internal/model"
)

// Outcome classifies a validation result for metric labels and span
// attributes.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, model.ErrCycle):
		return "cycle"
	case errors.Is(err, model.ErrIntegrity):
		return "error"
	default:
		return "invalid"
	}
}
