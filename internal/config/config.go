package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthSecret string // HMAC secret for local JWTs

	// Bootstrap users, seeded into the users table when it is empty.
	// Passwords are bcrypt-hashed on seed.
	SeedTeacherUser string
	SeedTeacherPass string
	SeedStudentUser string
	SeedStudentPass string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,
		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		// Dev-only bootstrap credentials; override in any real deployment.
		SeedTeacherUser: envOr("SEED_TEACHER_USER", "teacher"),
		SeedTeacherPass: envOr("SEED_TEACHER_PASS", "teacher"),
		SeedStudentUser: envOr("SEED_STUDENT_USER", "student"),
		SeedStudentPass: envOr("SEED_STUDENT_PASS", "student"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.brightclass.io"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
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
