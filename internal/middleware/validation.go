package middleware

import (
	"github.com/gofiber/fiber/v2"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/validation"
)

// ValidatedSegmentKey is the Locals key holding the parsed segment.
const ValidatedSegmentKey = "validated_segment"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSegment validates the segment from the path parameter or the
// "segment" query parameter.
func (vm *ValidationMiddleware) ValidateSegment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("segment")
		if raw == "" {
			raw = c.Query("segment")
		}

		segment, errors := vm.validator.ValidateSegment(raw)
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedSegmentKey, segment)
		return c.Next()
	}
}

// SegmentFrom returns the segment stored by ValidateSegment.
func SegmentFrom(c *fiber.Ctx) (domain.Segment, bool) {
	segment, ok := c.Locals(ValidatedSegmentKey).(domain.Segment)
	return segment, ok
}
