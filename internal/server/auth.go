package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const userIDKey = "userID"

func (s *Server) issueToken(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWTSecret)
}

// requireAuth validates the bearer token and stores the user id on the
// context. Anything wrong with the token is a 401, which clients treat as
// "session expired".
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
		return
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or expired token"})
		return
	}

	claims := token.Claims.(*jwt.RegisteredClaims)
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token subject"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}

func (s *Server) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hashing password failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "registration failed"})
		return
	}

	user, err := s.users.Create(c.Request.Context(), domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Location: req.Location,
	}, string(hash))
	if errors.Is(err, domain.ErrEmailTaken) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already registered"})
		return
	}
	if err != nil {
		s.logger.Error("creating user failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "registration failed"})
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, hash, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		return
	}
	if err != nil {
		s.logger.Error("looking up user failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "login failed"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) me(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), currentUserID(c))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unknown user"})
		return
	}
	if err != nil {
		s.logger.Error("loading user failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, api.UserFromDomain(user))
}

func (s *Server) respondWithToken(c *gin.Context, user domain.User) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("issuing token failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        api.UserFromDomain(user),
	})
}
