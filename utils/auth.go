// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenCookie = "token"

	ContextUserID  = "userId"
	ContextSalonID = "salonId"
)

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, expiryHours int) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &TokenManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
		now:    time.Now,
	}, nil
}

// Expiry returns the token lifetime, used for the cookie max-age.
func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

// GenerateToken issues a token carrying the user and salon ids.
func (m *TokenManager) GenerateToken(userID, salonID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     userID,
		"salonId": salonID,
		"exp":     now.Add(m.expiry).Unix(),
		"iat":     now.Unix(),
	})
	return token.SignedString(m.secret)
}

// ParseToken validates tokenString and returns the user and salon ids.
func (m *TokenManager) ParseToken(tokenString string) (userID, salonID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}
	userID, _ = claims["sub"].(string)
	salonID, _ = claims["salonId"].(string)
	if userID == "" || salonID == "" {
		return "", "", errors.New("invalid token claims")
	}
	return userID, salonID, nil
}

// AuthMiddleware accepts a Bearer header or the session cookie.
func (m *TokenManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		userID, salonID, err := m.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextSalonID, salonID)
		c.Next()
	}
}

// AdminMiddleware guards batch endpoints with a static token in X-Admin-Token.
func AdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" || c.GetHeader("X-Admin-Token") != adminToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin token required"})
			return
		}
		c.Next()
	}
}
