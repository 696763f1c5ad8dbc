package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sucupira/processmap/common/apperr"
)

// writeError maps a service error to its HTTP status with a uniform body
func writeError(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), map[string]interface{}{
		"error": err.Error(),
	})
}

// paramID parses a numeric path parameter
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.InvalidArgument("%s must be a numeric id", name)
	}
	return id, nil
}
