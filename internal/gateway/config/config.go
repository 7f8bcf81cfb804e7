package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	DataDir string
	// AuthTokens maps bearer token to user id; empty means auth is disabled
	// (local dev).
	AuthTokens map[string]string
	HooksPath string
	LLM       LLMConfig
	Broll     BrollConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
}

type BrollConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		dataDir = "tmp"
	}

	return &Config{
		Port:      *port,
		Env:       env,
		DataDir:   dataDir,
		AuthTokens: loadAuthTokens(),
		HooksPath: firstNonEmpty(strings.TrimSpace(os.Getenv("HOOKS_FILE")), filepath.Join("data", "hooks.txt")),
		LLM:       loadLLMConfig(),
		Broll:     loadBrollConfig(env),
	}, nil
}

// loadAuthTokens reads API_TOKENS as comma-separated token:user pairs.
// API_AUTH_TOKEN adds a single token bound to the local user.
func loadAuthTokens() map[string]string {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv("API_TOKENS"), ",") {
		token, user, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || strings.TrimSpace(token) == "" || strings.TrimSpace(user) == "" {
			continue
		}
		tokens[strings.TrimSpace(token)] = strings.TrimSpace(user)
	}
	if single := strings.TrimSpace(os.Getenv("API_AUTH_TOKEN")); single != "" {
		tokens[single] = "local"
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func loadLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_PROVIDER")), "gemini"),
		APIKey:   strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.5-flash"),
	}
}

func loadBrollConfig(env string) BrollConfig {
	endpoint := resolveBrollEndpoint(env)
	return BrollConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("BROLL_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BROLL_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BROLL_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("BROLL_S3_BUCKET")), "reelforge-broll"),
		UseSSL:    resolveBrollUseSSL(env),
	}
}

// CanUseS3 reports whether the clip store has a complete S3 configuration.
func (b BrollConfig) CanUseS3() bool {
	return b.Endpoint != "" && b.AccessKey != "" && b.SecretKey != "" && b.Bucket != ""
}

func resolveBrollEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("BROLL_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("BROLL_S3_ENDPOINT"))
}

func resolveBrollUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("BROLL_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
