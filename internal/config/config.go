package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Prod     bool
	MongoURI string
	MongoDB  string

	JWTSecret string
	// TokenTTL covers password register/login tokens. OAuthTokenTTL covers
	// tokens minted on the Google callback; it is explicit here rather than
	// inherited from any signing-library default.
	TokenTTL      time.Duration
	OAuthTokenTTL time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	OAuthStateSecret   string

	// ClientURL is the front end; the OAuth callback redirects there with
	// ?token=, and to ClientURL/login on failure.
	ClientURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	RabbitURL      string
	RabbitExchange string

	// NotifyTimeout bounds each recipient's mail dispatch.
	NotifyTimeout time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getenv("APP_PORT", "5000"),
		Prod:     getenv("APP_ENV", "dev") == "prod",
		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "todo_db"),

		JWTSecret:     getenv("JWT_SECRET", "default_secret_key"),
		TokenTTL:      time.Duration(atoi(getenv("TOKEN_TTL_MIN", "60"))) * time.Minute,
		OAuthTokenTTL: time.Duration(atoi(getenv("OAUTH_TOKEN_TTL_MIN", "1440"))) * time.Minute,

		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "http://localhost:5000/auth/google/callback"),
		OAuthStateSecret:   getenv("OAUTH_STATE_SECRET", "default_state_secret"),

		ClientURL: getenv("CLIENT_URL", "http://localhost:3000"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     getenv("EMAIL_USER", ""),
		SMTPPassword: getenv("EMAIL_PASS", ""),

		RabbitURL:      getenv("RABBIT_URL", ""),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "todo.events"),

		NotifyTimeout: time.Duration(atoi(getenv("NOTIFY_TIMEOUT_SEC", "10"))) * time.Second,
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
