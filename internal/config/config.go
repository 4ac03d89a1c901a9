package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	SurveyCollection             string
	QuestionCollection           string
	VersionCollection            string
	VoteCollection               string
	DomainCollection             string
	ClientCollection             string
	FailedNotificationCollection string
	Timeout                      time.Duration
	ClientCacheTime              time.Duration
	QuestionCacheTime            time.Duration
	ServerLog                    *log.Logger
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	MessengerEndpoint            string
	MessengerDestination         string
	MessengerTimeout             time.Duration
	AllowedOrigins               []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	// 未完了回答の生存時間。放置された端末の回答はこの時間で破棄される。
	clientCacheTime := 30 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("CLIENT_CACHE_TIME")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			clientCacheTime = parsed
		}
	}

	questionCacheTime := time.Hour
	if raw := strings.TrimSpace(os.Getenv("QUESTION_CACHE_TIME")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			questionCacheTime = parsed
		}
	}

	messengerEndpoint := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL"))

	messengerDestination := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_DESTINATION"))
	if messengerDestination == "" {
		messengerDestination = "operations"
	}

	messengerTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			messengerTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_TERMINAL_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_TERMINAL_JWT_ISSUER", "survey-terminal-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_OPERATOR_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_OPERATOR_JWT_ISSUER", "survey-operator-auth"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_TERMINAL_JWT_SECRET or AUTH_OPERATOR_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "survey-terminal"),
		SurveyCollection:             envOrDefault("SURVEY_COLLECTION", "survey"),
		QuestionCollection:           envOrDefault("QUESTION_COLLECTION", "question"),
		VersionCollection:            envOrDefault("VERSION_COLLECTION", "version"),
		VoteCollection:               envOrDefault("VOTE_COLLECTION", "votes"),
		DomainCollection:             envOrDefault("DOMAIN_COLLECTION", "domain"),
		ClientCollection:             envOrDefault("CLIENT_COLLECTION", "client"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      timeout,
		ClientCacheTime:              clientCacheTime,
		QuestionCacheTime:            questionCacheTime,
		ServerLog:                    log.New(os.Stdout, "[survey-terminal-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:                   jwtConfigs,
		JWTAudience:                  jwtAudience,
		MessengerEndpoint:            messengerEndpoint,
		MessengerDestination:         messengerDestination,
		MessengerTimeout:             messengerTimeout,
		AllowedOrigins:               allowedOrigins,
	}

	cfg.ServerLog.Printf("loaded config: clientCacheTime=%s questionCacheTime=%s messengerEndpoint=%q", clientCacheTime, questionCacheTime, messengerEndpoint)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
