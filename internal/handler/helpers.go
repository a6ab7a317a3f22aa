package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/shareview/shareview/internal/pkg/errcode"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
	"github.com/shareview/shareview/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get("user_id")
	userID, _ := value.(string)
	return userID
}

// handleError maps service errors onto API codes. The OTP verify
// sub-cases are collapsed into one generic answer so a caller cannot
// probe which stage failed; token failures likewise force the viewer
// back to the email step without saying why.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case appErr.IsOTPFailure(err):
		response.Error(c, errcode.ErrOTPInvalid, "invalid or expired code")
	case err == appErr.ErrTokenInvalid || err == appErr.ErrTokenExpired:
		response.Error(c, errcode.ErrAccessDenied, "access denied")
	case err == appErr.ErrLinkNotLive:
		response.Error(c, errcode.ErrLinkNotLive, "link no longer available")
	case err == appErr.ErrEmailNotAllowed:
		response.Error(c, errcode.ErrEmailNotAllowed, "email not allowed")
	case err == appErr.ErrDeliveryFailed:
		response.Error(c, errcode.ErrDeliveryFailed, "could not deliver code")
	case err == appErr.ErrTooMany:
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case err == appErr.ErrUnauthorized:
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case err == appErr.ErrForbidden:
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case err == appErr.ErrNotFound:
		response.Error(c, errcode.ErrNotFound, "not found")
	case err == appErr.ErrInvalid:
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case err == appErr.ErrConflict:
		response.Error(c, errcode.ErrConflict, "conflict")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
