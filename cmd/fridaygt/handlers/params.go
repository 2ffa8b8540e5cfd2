package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pathID parses a uuid path parameter; malformed ids are reported as not found
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ordering.NotFound(strings.TrimSuffix(name, "Id") + " not found")
	}
	return id, nil
}

// bodyID parses a uuid carried in a request body field
func bodyID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ordering.Invalid(ordering.ReasonInvalidBody, fmt.Sprintf("%s: malformed id %q", field, raw))
	}
	return id, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
