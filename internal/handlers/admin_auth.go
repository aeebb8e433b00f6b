package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"perfumery/internal/auth"
	"perfumery/internal/middleware"
)

type AdminLoginRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) set(c *gin.Context, value string, maxAge int) {
	if o.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", o.Secure, true)
}

/*
POST /admin/login
- sends a one-time code out of band
*/
func AdminLogin(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		if err := authService.RequestCode(c.Request.Context(), req.Email); err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": nil, "message": "OTP sent successfully"})
	}
}

/*
POST /admin/verify-otp
- token in body and httpOnly cookie
*/
func VerifyOTP(authService *auth.Service, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/verify-otp"
		defer handlePanic(c, route)

		var req VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		token, err := authService.Verify(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		cookies.set(c, token, int(authService.SessionTTL().Seconds()))
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{"token": token},
			"message": "Login successful",
		})
	}
}

func AdminLogout(cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookies.set(c, "", -1)
		c.JSON(http.StatusOK, gin.H{"data": nil, "message": "Logged out successfully"})
	}
}

func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := c.Get(middleware.ClaimsKey)
		session, _ := claims.(auth.Claims)
		c.JSON(http.StatusOK, gin.H{"ok": true, "email": session.Email})
	}
}
