package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo.Validator
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator reporting json field names
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ordering.Invalid(ordering.ReasonInvalidBody, err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return ordering.Invalid(ordering.ReasonInvalidBody, strings.Join(msgs, "; "))
}

// bind decodes the request body into req and validates it
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return ordering.Invalid(ordering.ReasonInvalidBody, "request body is not valid JSON")
	}
	return c.Validate(req)
}
