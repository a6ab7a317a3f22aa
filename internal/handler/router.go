package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shareview/shareview/internal/middleware"
)

type RouterDeps struct {
	Shares    *ShareHandler
	Access    *AccessHandler
	JWTSecret []byte
	// OTPCooldown is the coarse per-IP cooldown in front of the code
	// request route; zero disables it (the per-pair budget in the
	// challenge service still applies).
	OTPCooldown time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	ownerGroup := api.Group("")
	ownerGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	ownerGroup.POST("/share", deps.Shares.Create)
	ownerGroup.GET("/share/list", deps.Shares.List)
	ownerGroup.GET("/share/:token/config", deps.Shares.GetConfig)
	ownerGroup.PATCH("/share/:token", deps.Shares.Update)
	ownerGroup.DELETE("/share/:token", deps.Shares.Revoke)

	api.POST("/share/:token/otp/request", middleware.RateLimit(deps.OTPCooldown), deps.Access.RequestOTP)
	api.POST("/share/:token/otp/verify", deps.Access.VerifyOTP)
	api.GET("/share/:token/data", deps.Access.Data)
}
