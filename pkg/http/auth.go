package http

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
)

const tokenIssuer = "w1-temperature-service"

var errBadCredentials = errors.New("bad username or password")

// Auth issues and checks HS256 tokens for a single configured account.
type Auth struct {
	Secret   []byte
	TTL      time.Duration
	Username string
	Password string

	now func() time.Time
}

func NewAuth(secret string, ttl time.Duration, username, password string) *Auth {
	return &Auth{
		Secret:   []byte(secret),
		TTL:      ttl,
		Username: username,
		Password: password,
		now:      time.Now,
	}
}

func (a *Auth) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	if a.Username == "" || !userOK || !passOK {
		return errBadCredentials
	}
	return nil
}

func (a *Auth) Issue(username string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (a *Auth) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := a.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("subject", claims.Subject)
		c.Next()
	}
}

type LoginRequest struct {
	Username string `json:"username" zog:"username"`
	Password string `json:"password" zog:"password"`
}

var loginRequestSchema = z.Struct(z.Shape{
	"username": z.String().Required(),
	"password": z.String().Required(),
})

func (rs *RestfulServer) Login(c *gin.Context) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer, zap.String(common.LoggerFieldCategory, "auth"))

	if rs.Auth == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "authentication is disabled"})
		return
	}

	var req LoginRequest
	if err := loginRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Auth.Check(req.Username, req.Password); err != nil {
		logger.Warn("Login rejected", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, expires, err := rs.Auth.Issue(req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expires.UTC()})
}
