package controllers

import (
	"combinaapi/logger"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const anonymousPrefix = "anon_"

// Identity is who a request acts as. Anonymous identities are derived from
// the client fingerprint and have no stored profile.
type Identity struct {
	UserID    string
	Anonymous bool
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(c echo.Context) string {
	if forwarded := c.Request().Header.Get(echo.HeaderXForwardedFor); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	return c.RealIP()
}

func AnonymousID(ip, userAgent, secret string) string {
	sum := sha256.Sum256([]byte(ip + "_" + userAgent + "_" + secret))
	return anonymousPrefix + hex.EncodeToString(sum[:])[:16]
}

// parseBearer returns the subject and token type of a valid HS256 bearer token.
func parseBearer(header, secret string) (subject, tokenType string, ok bool) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || secret == "" {
		return "", "", false
	}
	token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", false
	}
	subject, _ = claims["sub"].(string)
	tokenType, _ = claims["type"].(string)
	return subject, tokenType, subject != ""
}

// IdentityMiddleware resolves an optional bearer token. Requests without a
// valid token act as an anonymous identity bound to their ip and user agent.
func IdentityMiddleware(jwtSecret, anonSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var identity Identity
			if sub, tokenType, ok := parseBearer(c.Request().Header.Get(echo.HeaderAuthorization), jwtSecret); ok {
				identity = Identity{
					UserID:    sub,
					Anonymous: tokenType == "anonymous" || strings.HasPrefix(sub, anonymousPrefix),
				}
			} else {
				identity = Identity{
					UserID:    AnonymousID(clientIP(c), c.Request().UserAgent(), anonSecret),
					Anonymous: true,
				}
			}
			c.Set("identity", identity)
			c.Set("__logger", requestLogger(c).With("user_id", identity.UserID, "anonymous", identity.Anonymous))
			return next(c)
		}
	}
}

// RegisteredUserMiddleware runs after echojwt and rejects anonymous tokens.
func RegisteredUserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userRaw := c.Get("user")
		if userRaw == nil {
			return echo.ErrUnauthorized
		}
		token, ok := userRaw.(*jwt.Token)
		if !ok {
			return echo.ErrUnauthorized
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.ErrUnauthorized
		}
		userID, _ := claims["sub"].(string)
		if userID == "" {
			requestLogger(c).Warn("token without subject")
			return echo.ErrUnauthorized
		}
		tokenType, _ := claims["type"].(string)
		if tokenType == "anonymous" || strings.HasPrefix(userID, anonymousPrefix) {
			return echo.ErrForbidden
		}
		c.Set("identity", Identity{UserID: userID})
		c.Set("__logger", requestLogger(c).With("user_id", userID))
		return next(c)
	}
}

func currentIdentity(c echo.Context) Identity {
	identity, _ := c.Get("identity").(Identity)
	return identity
}

func requestLogger(c echo.Context) *logger.Logger {
	if l, ok := c.Get("__logger").(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
