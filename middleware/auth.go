package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotel-ops-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const sessionKey = "session"

// SessionKind discriminates the two account types a token can carry.
type SessionKind string

const (
	SessionGuest SessionKind = "guest"
	SessionStaff SessionKind = "staff"
)

// Session is the resolved identity of the current request. Exactly one of
// Guest or Staff is non-nil, matching Kind.
type Session struct {
	Kind  SessionKind
	Guest *models.Guest
	Staff *models.Staff
}

func (s Session) UserID() uint {
	if s.Kind == SessionStaff {
		return s.Staff.ID
	}
	return s.Guest.ID
}

// Role returns the staff role, or "Guest" for guest sessions.
func (s Session) Role() string {
	if s.Kind == SessionStaff {
		return s.Staff.Role
	}
	return "Guest"
}

type tokenClaims struct {
	Kind SessionKind `json:"kind"`
	jwt.RegisteredClaims
}

// SignToken issues a session token for the given account.
func SignToken(secret string, kind SessionKind, userID uint, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Protect authenticates the request from the jwt cookie or a bearer header and
// resolves the session once. Missing, invalid or expired tokens get 401.
func Protect(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Cookie("jwt"); err == nil {
			token = cookie
		}
		if token == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		session, err := resolveSession(db, secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func resolveSession(db *gorm.DB, secret, token string) (Session, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, errors.New("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, errors.New("invalid subject")
	}

	switch claims.Kind {
	case SessionStaff:
		var staff models.Staff
		if err := db.First(&staff, uint(id)).Error; err != nil {
			return Session{}, errors.New("user not found")
		}
		return Session{Kind: SessionStaff, Staff: &staff}, nil
	case SessionGuest:
		var guest models.Guest
		if err := db.First(&guest, uint(id)).Error; err != nil {
			return Session{}, errors.New("user not found")
		}
		return Session{Kind: SessionGuest, Guest: &guest}, nil
	default:
		return Session{}, errors.New("unknown session kind")
	}
}

// CurrentSession extracts the session resolved by Protect.
func CurrentSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// RequireStaff rejects guest sessions with 403.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok || s.Kind != SessionStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Staff access required"})
			return
		}
		c.Next()
	}
}

// RequireRoles rejects sessions whose role is not in the allow list. Applied
// per route group so the authorization policy lives in the route table.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		role := s.Role()
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Role " + role + " is not authorized to access this route"})
	}
}
