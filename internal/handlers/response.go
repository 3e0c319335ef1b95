package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"socialfeed/internal/imagestore"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal server error"

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var verr *service.ValidationError
	var ierr *imagestore.ValidationError
	switch {
	case errors.As(err, &verr), errors.As(err, &ierr), errors.Is(err, service.ErrSelfFollow):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrNotLiked),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, imagestore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrAlreadyFollowing):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeServiceError responds with {"error": msg}. Unexpected errors are
// logged under logKey and hidden from the caller.
func (h *Handler) writeServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = errInternal
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
	}
	c.JSON(code, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// intParam reads a numeric path parameter, answering 400 when malformed.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// intQuery reads an optional numeric query parameter.
func intQuery(c *gin.Context, names ...string) (int, bool) {
	for _, name := range names {
		s := c.Query(name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid "+name)
			return 0, false
		}
		return v, true
	}
	return 0, true
}

func boolQuery(c *gin.Context, name string, def bool) (bool, bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		badRequest(c, "invalid "+name)
		return false, false
	}
	return v, true
}

// pageQuery reads page_size, last_id (or one of lastAliases) and descending.
func pageQuery(c *gin.Context, defaultDesc bool, lastAliases ...string) (service.PageQuery, bool) {
	size, ok := intQuery(c, "page_size")
	if !ok {
		return service.PageQuery{}, false
	}
	last, ok := intQuery(c, append([]string{"last_id"}, lastAliases...)...)
	if !ok {
		return service.PageQuery{}, false
	}
	desc, ok := boolQuery(c, "descending", defaultDesc)
	if !ok {
		return service.PageQuery{}, false
	}
	return service.PageQuery{Size: size, LastID: last, Descending: desc}, true
}
