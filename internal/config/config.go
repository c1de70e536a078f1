package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr    string
	CORSOrigins []string

	// Default LMS instance when the user leaves the field blank.
	CanvasBaseURL string

	// OpenAI-compatible generation endpoint. Empty API key disables the
	// model and forces offline generation.
	ChatBase   string
	ChatModel  string
	ChatAPIKey string

	QuizCount    int // default question count per quiz
	MidtermCount int // fixed midterm size

	// Extraction cache. Driver "" disables the cache entirely.
	DBDriver string // sqlite|postgres
	DBDSN    string

	ArtifactDir string

	// Session cookie encryption for stored LMS credentials.
	SessionSecret string

	// Optional instructor gate in front of the tool itself.
	EnableLocalAuth bool
	AuthSecret      string
	AdminUser       string
	AdminPassHash   string // bcrypt
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:    addr,
		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		CanvasBaseURL: envOr("CANVAS_BASE_URL", "https://canvas.instructure.com/"),

		ChatBase:   os.Getenv("CHAT_BASE"),
		ChatModel:  envOr("MODEL_NAME", "local"),
		ChatAPIKey: os.Getenv("API_KEY"),

		QuizCount:    envInt("QUIZ_COUNT", 20),
		MidtermCount: envInt("MIDTERM_COUNT", 30),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		ArtifactDir: envOr("ART_DIR", "./artifacts"),

		SessionSecret: envOr("SESSION_SECRET", "quizforge-dev-secret"),

		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", false),
		AuthSecret:      envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:       envOr("ADMIN_USER", "admin"),
		AdminPassHash:   envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
