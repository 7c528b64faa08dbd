package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	VisitorCookie = "sid"

	visitorKey = "visitorID"
	// one year, like browser local storage that outlives the tab
	visitorMaxAge = 365 * 24 * 60 * 60
)

// Visitor gives every client a stable id cookie. Cart and wishlist snapshots
// are stored under it.
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   visitorMaxAge,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}
