package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareview/shareview/internal/pkg/errcode"
	"github.com/shareview/shareview/internal/pkg/response"
	"github.com/shareview/shareview/internal/service"
)

// AccessHandler serves the unauthenticated viewer routes: the OTP
// handshake and the scoped data reads gated by an access token.
type AccessHandler struct {
	challenges *service.ChallengeService
	access     *service.AccessService
}

func NewAccessHandler(challenges *service.ChallengeService, access *service.AccessService) *AccessHandler {
	return &AccessHandler{challenges: challenges, access: access}
}

type otpRequestBody struct {
	Email string `json:"email"`
}

type otpVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AccessHandler) RequestOTP(c *gin.Context) {
	var req otpRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	err := h.challenges.RequestChallenge(c.Request.Context(), c.Param("token"), req.Email, c.ClientIP())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *AccessHandler) VerifyOTP(c *gin.Context) {
	var req otpVerifyBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	grant, err := h.challenges.Verify(c.Request.Context(), c.Param("token"), req.Email, req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, grant)
}

func (h *AccessHandler) Data(c *gin.Context) {
	link, err := h.access.Authorize(c.Request.Context(), c.Param("token"), c.Query("access_token"))
	if err != nil {
		handleError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.access.Read(c.Request.Context(), link, c.Query("search"), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
