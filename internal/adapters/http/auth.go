package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recovery-center/internal/domain"
	"recovery-center/internal/service"
)

const ctxUserID = "user_id"

// AuthRequired resolves the bearer token and stores the account id in the
// request context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}
		uid, _, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, uid)
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.UserID {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(domain.UserID); ok {
			return uid
		}
	}
	return ""
}

func handleSignup(auth *service.AuthService) gin.HandlerFunc {
	type req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
			return
		}
		u, err := auth.Register(c.Request.Context(), body.Name, body.Email, body.Password)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"user": u})
		case errors.Is(err, service.ErrEmailNotAllowed),
			errors.Is(err, service.ErrEmailNotVerified),
			errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, domain.ErrPasswordTooWeak),
			errors.Is(err, domain.ErrEmailInvalid),
			errors.Is(err, domain.ErrNicknameEmpty),
			errors.Is(err, domain.ErrNicknameTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
	}
}

func handleLogin(auth *service.AuthService) gin.HandlerFunc {
	type req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
			return
		}
		token, u, err := auth.Login(c.Request.Context(), body.Email, body.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

func handleVerifyRequest(verify *service.VerifyService) gin.HandlerFunc {
	type req struct {
		Email string `json:"email" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing email"})
			return
		}
		if err := verify.RequestCode(c.Request.Context(), body.Email); err != nil {
			if errors.Is(err, domain.ErrEmailInvalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "code sent"})
	}
}

func handleVerifyConfirm(verify *service.VerifyService) gin.HandlerFunc {
	type req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
			return
		}
		if err := verify.ConfirmCode(c.Request.Context(), body.Email, body.Code); err != nil {
			if errors.Is(err, service.ErrInvalidCode) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}
