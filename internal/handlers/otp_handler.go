package handlers

import (
	"net/http"

	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	*BaseHandler
	otpService services.OTPService
	limiter    gin.HandlerFunc
}

// NewOTPHandler: limiter may be nil.
func NewOTPHandler(base *BaseHandler, otpService services.OTPService, limiter gin.HandlerFunc) *OTPHandler {
	return &OTPHandler{
		BaseHandler: base,
		otpService:  otpService,
		limiter:     limiter,
	}
}

func (h *OTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	otp := rg.Group("/otp")
	if h.limiter != nil {
		otp.Use(h.limiter)
	}
	{
		otp.POST("/send", h.SendOTP)
		otp.POST("/resend", h.ResendOTP)
		otp.POST("/verify", h.VerifyOTP)
	}
}

func (h *OTPHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.otpService.SendOTP(c.Request.Context(), h.GetDB(c), req.Email, req.UserType, req.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OTPHandler) ResendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.otpService.ResendOTP(c.Request.Context(), h.GetDB(c), req.Email, req.UserType, req.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.otpService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
