package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
)

const adminSessionKey = "adminLoggedIn"

var adminPasswordHash []byte

// InitAuth hashes the shared admin password from the environment. There is
// a single admin identity; mutating routes are gated on it.
func InitAuth() {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "wc2026admin"
		log.Println("ADMIN_PASSWORD not set, using the development default")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	adminPasswordHash = hash
}

func CheckAdminPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(password)) == nil
}

func LoginAdmin(sessionManager *scs.SessionManager, ctx context.Context) {
	sessionManager.Put(ctx, adminSessionKey, true)
}

func LogoutAdmin(sessionManager *scs.SessionManager, ctx context.Context) {
	sessionManager.Remove(ctx, adminSessionKey)
}

func IsAdmin(sessionManager *scs.SessionManager, ctx context.Context) bool {
	return sessionManager.GetBool(ctx, adminSessionKey)
}

// RequireAdmin redirects anonymous visitors to the login page, carrying the
// original URL so the login can bounce them back.
func RequireAdmin(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(sessionManager, r.Context()) {
				http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
