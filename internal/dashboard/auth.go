// /internal/dashboard/auth.go
package dashboard

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionLifetime = 7 * 24 * time.Hour

// sessions tracks issued bearer tokens with expiry.
type sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newSessions() *sessions {
	return &sessions{tokens: make(map[string]time.Time)}
}

func (s *sessions) issue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = time.Now().Add(sessionLifetime)
	s.mu.Unlock()
	return token, nil
}

func (s *sessions) valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *sessions) revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func (s *Server) handleLogin(c *gin.Context) {
	if s.password == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DASHBOARD_PASSWORD not set"})
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing JSON body"})
		return
	}
	if !hmac.Equal([]byte(body.Password), []byte(s.password)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "wrong password"})
		return
	}
	token, err := s.sessions.issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.sessions.revoke(bearerToken(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleMe(c *gin.Context) {
	if s.sessions.valid(bearerToken(c)) {
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
}

// requireAuth rejects requests without a live session token.
func (s *Server) requireAuth(c *gin.Context) {
	if !s.sessions.valid(bearerToken(c)) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}
