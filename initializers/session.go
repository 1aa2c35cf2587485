package initializers

import (
	"encoding/gob"
	"os"

	"github.com/gorilla/sessions"
	"github.com/spf13/cast"
)

// SessionName is the cookie carrying the guest session.
const SessionName = "bravo_session"

var SessionStore *sessions.CookieStore

func InitSessionStore() {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "fallback-secret-key"
	}

	SessionStore = sessions.NewCookieStore([]byte(secret))
	SessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: cast.ToBool(getEnvDefault("SESSION_COOKIE_HTTPONLY", "true")),
		Secure:   cast.ToBool(getEnvDefault("SESSION_COOKIE_SECURE", "false")),
	}

	// The guest cart map must be registered for cookie serialization.
	gob.Register(map[string]int{})
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
