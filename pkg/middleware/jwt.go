package middleware

import (
	"fmt"
	"net/http"
	"stackit/qa-api/internal/model"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware returns a middleware that requires a valid bearer token
// in the Authorization header. On success it sets userID, username and role
// on the request context.
func NewJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		claims, errCode := parseBearer(c)
		if errCode != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     errCode,
				"requestID": requestID,
			})
			return
		}

		userID := claims.userID

		// In case someone logs in, deletes their account and keeps using
		// the old token, we'll reject the request
		var user model.User
		err := d.Where("id = ?", userID).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "user_not_found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "internal_server_error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !user.Verified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "account_not_verified",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", userID)
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Next()
	}
}

// NewOptionalJWTMiddleware is the best-effort variant used on public reads
// so they can annotate responses with the caller's votes. An absent or
// invalid token is not an error, the request just stays anonymous.
func NewOptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, errCode := parseBearer(c)
		if errCode == "" {
			c.Set("userID", claims.userID)
			c.Set("role", claims.role)
		}

		c.Next()
	}
}

type tokenClaims struct {
	userID string
	role   string
}

func parseBearer(c *gin.Context) (tokenClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return tokenClaims{}, "no_auth_token"
	}

	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return tokenClaims{}, "no_auth_token"
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil || !token.Valid {
		return tokenClaims{}, "token_invalid"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, "token_invalid"
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return tokenClaims{}, "token_invalid"
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return tokenClaims{}, "token_expired"
	}

	if time.Now().Unix() >= int64(exp) {
		return tokenClaims{}, "token_expired"
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = model.RoleUser
	}

	return tokenClaims{userID: userID, role: role}, ""
}
