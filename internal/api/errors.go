package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/auth"
)

// Error is the JSON body of a failed request
type Error struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// respondError maps a service error onto the response. Unauthenticated
// callers go to the login page; forbidden edits go back to the post.
func (r *Router) respondError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		e := NewError(http.StatusBadRequest, apperr.ErrValidation.Error())
		e.Fields = verr.Fields
		c.JSON(http.StatusBadRequest, e)
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, NewError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, NewError(http.StatusNotFound, err.Error()))
	case errors.Is(err, apperr.ErrUnauthorized):
		c.Redirect(http.StatusFound, auth.LoginRedirect(r.loginURL, c.Request.URL.Path))
	case errors.Is(err, apperr.ErrForbidden):
		if id := c.Param("post_id"); id != "" {
			c.Redirect(http.StatusFound, "/posts/"+id+"/")
			return
		}
		c.JSON(http.StatusForbidden, NewError(http.StatusForbidden, err.Error()))
	default:
		r.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, NewError(http.StatusInternalServerError, "internal server error"))
	}
}
