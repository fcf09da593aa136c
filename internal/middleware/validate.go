package middleware

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator wraps a shared validator instance for request payloads.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the struct's `validate` tags.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// BindAndValidate parses the request body into s and validates it,
// writing a descriptive 4xx on failure. Returns false when the
// response has already been written.
func (v *Validator) BindAndValidate(c *fiber.Ctx, s interface{}) bool {
	if err := c.BodyParser(s); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"msg":   err.Error(),
		})
		return false
	}

	if err := v.Validate(s); err != nil {
		fields := make(map[string]string)
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		_ = c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
		return false
	}

	return true
}
