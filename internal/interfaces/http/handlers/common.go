// Package handlers holds the gin handlers of the molmatch HTTP API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// parsePagination extracts page and page_size from query parameters.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// respond writes data in the standard envelope.
func respond[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = c.GetString(RequestIDKey)
	c.JSON(status, resp)
}

// respondError maps err to its HTTP status.  Server-side failures are
// masked; the detail is only in the log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	message, detail := errors.DefaultMessageForCode(code), ""

	var appErr *errors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message, detail = appErr.Message, appErr.Detail
	}
	if status >= http.StatusInternalServerError {
		code = errors.ErrCodeInternal
		message = "internal server error"
	}

	resp := common.NewErrorResponse(code.String(), message, detail)
	resp.RequestID = c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body").WithDetail(err.Error()))
		return false
	}
	return true
}

//Personal.AI order the ending
