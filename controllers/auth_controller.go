package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/dto"
	"github.com/princinho/urbanthreads/middleware"
)

func (a *App) setAccessCookie(c *gin.Context, sess *auth.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    sess.AccessToken,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *App) clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// consumeRedirect returns the remembered page, defaulting to the home page,
// and clears the marker. Only local paths are honoured.
func (a *App) consumeRedirect(c *gin.Context) string {
	target, err := c.Cookie(RedirectAfterLoginCookie)
	if err != nil {
		return "/"
	}
	a.clearCookie(c, RedirectAfterLoginCookie)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

func sessionView(sess *auth.Session) gin.H {
	return gin.H{
		"accessToken": sess.AccessToken,
		"expiresAt":   sess.ExpiresAt.UTC(),
		"user":        sess.User,
	}
}

func (a *App) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SignUpDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := a.Auth.SignUp(c.Request.Context(), body.Email, body.Password, auth.Profile{
			FullName: body.FullName,
			Username: body.Username,
		})
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			log.Printf("sign up %s: %v", body.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
		a.setAccessCookie(c, sess)
		view := sessionView(sess)
		view["redirect"] = "/"
		c.JSON(http.StatusCreated, view)
	}
}

func (a *App) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := a.Auth.SignIn(c.Request.Context(), body.Email, body.Password)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		case errors.Is(err, auth.ErrAccountDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		case err != nil:
			log.Printf("login %s: %v", body.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "connection failed"})
			return
		}
		a.setAccessCookie(c, sess)
		view := sessionView(sess)
		view["redirect"] = a.consumeRedirect(c)
		c.JSON(http.StatusOK, view)
	}
}

func (a *App) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.Token(c); token != "" {
			a.Auth.SignOut(token)
		}
		a.clearCookie(c, middleware.AccessTokenCookie)
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}

func (a *App) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := a.Auth.ResetPassword(c.Request.Context(), body.Email); err != nil {
			log.Printf("reset password %s: %v", body.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to request password reset"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a reset link is on its way"})
	}
}

func (a *App) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.CurrentUser(c))
	}
}
