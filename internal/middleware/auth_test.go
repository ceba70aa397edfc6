package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BearerAuth(cfg))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) int {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestBearerAuthPlainToken(t *testing.T) {
	r := newAuthRouter(AuthConfig{TokenAPI: "secreto123"})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secreto123", http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"wrong token", "Bearer errado", http.StatusUnauthorized},
		{"valid token", "Bearer secreto123", http.StatusOK},
		{"case-insensitive scheme", "bearer secreto123", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doRequest(r, tt.header); got != tt.want {
				t.Errorf("Status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBearerAuthBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	r := newAuthRouter(AuthConfig{TokenAPIHash: string(hash)})

	if got := doRequest(r, "Bearer secreto123"); got != http.StatusOK {
		t.Errorf("Valid token against hash: status %d, want 200", got)
	}
	if got := doRequest(r, "Bearer errado"); got != http.StatusUnauthorized {
		t.Errorf("Wrong token against hash: status %d, want 401", got)
	}
}

func TestBearerAuthHashPrecedence(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("dohash"), bcrypt.MinCost)
	r := newAuthRouter(AuthConfig{TokenAPI: "doplano", TokenAPIHash: string(hash)})

	// When both are set, only the hash is honored
	if got := doRequest(r, "Bearer dohash"); got != http.StatusOK {
		t.Errorf("Hash token: status %d, want 200", got)
	}
	if got := doRequest(r, "Bearer doplano"); got != http.StatusUnauthorized {
		t.Errorf("Plain token must be ignored when hash is set: status %d, want 401", got)
	}
}
