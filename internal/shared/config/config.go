package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	Env              string
	DatabaseURL      string
	ReportStoreType  string
	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	AgentProvider    string
	AgentModel       string
	OpenAIAPIKey     string
	ExtractorType    string
	DocIntelEndpoint string
	DocIntelKey      string
	DocIntelModelID  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" && normalizeReportStore(getEnv("REPORT_STORE", "")) != "mongo" {
		log.Printf("DATABASE_URL is required in production unless REPORT_STORE=mongo")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:              env,
		DatabaseURL:      dbURL,
		ReportStoreType:  normalizeReportStore(getEnv("REPORT_STORE", "")),
		MongoURI:         getEnv("MONGODB_CONNECTION_STRING", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGODB_DATABASE_NAME", "jobmate"),
		MongoCollection:  getEnv("MONGODB_COLLECTION_NAME", "analysis_results"),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		AgentProvider:    getEnv("AGENT_PROVIDER", "openai"),
		AgentModel:       getEnv("AGENT_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		ExtractorType:    normalizeExtractorType(getEnv("DOC_EXTRACTOR", "local")),
		DocIntelEndpoint: getEnv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", ""),
		DocIntelKey:      getEnv("AZURE_DOCUMENT_INTELLIGENCE_KEY", ""),
		DocIntelModelID:  getEnv("AZURE_DOCUMENT_INTELLIGENCE_MODEL_ID", "prebuilt-layout"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeReportStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mongo", "mongodb":
		return "mongo"
	case "postgres", "pg":
		return "postgres"
	default:
		return ""
	}
}

func normalizeExtractorType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "azure":
		return "azure"
	default:
		return "local"
	}
}
