// Package auth is an optional local gate in front of the tool: one
// instructor account, bcrypt-checked, handed a short-lived bearer token.
// LMS credentials are a separate concern and never pass through here.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	hmac     []byte
	user     string
	passHash string // bcrypt
}

func NewService(secret, user, passHash string) *Service {
	return &Service{hmac: []byte(secret), user: user, passHash: passHash}
}

type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *Service) IssueJWT(sub string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub: sub,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizforge",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, err
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// POST /login  {"username": "...", "password": "..."}
func LoginHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username != s.user ||
			bcrypt.CompareHashAndPassword([]byte(s.passHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := s.IssueJWT(req.Username)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

func JWTMiddleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			if _, err := s.Parse(strings.TrimPrefix(h, "Bearer ")); err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
