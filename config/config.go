package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StoreBackendPostgres  = "postgres"
	StoreBackendSQLite    = "sqlite"
	StoreBackendFirestore = "firestore"
)

type Config struct {
	Server       Server
	Store        Store
	Database     Database
	Firebase     Firebase
	Voice        Voice
	API          API
	GeminiApiKey string
	GeminiModel  string
}

type Server struct {
	Port    string
	GinMode string
}

// Store selects which document store backs the interviews, feedback and users collections.
type Store struct {
	Backend string
}

type Database struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type Firebase struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string `json:"-"`
}

type Voice struct {
	PublicKey           string `json:"-"`
	URL                 string
	GenerateWorkflowID  string
	InterviewTemplateID string
}

type API struct {
	BaseURL string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("SQLITE_PATH", "intellihire.db")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-001")
	viper.SetDefault("VAPI_URL", "wss://api.vapi.ai/call/web")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Store.Backend = strings.ToLower(viper.GetString("STORE_BACKEND"))

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.SQLitePath = viper.GetString("SQLITE_PATH")

	config.Firebase.ProjectID = viper.GetString("FIREBASE_PROJECT_ID")
	config.Firebase.ClientEmail = viper.GetString("FIREBASE_CLIENT_EMAIL")
	// Keys pasted into .env files carry escaped newlines.
	config.Firebase.PrivateKey = strings.ReplaceAll(viper.GetString("FIREBASE_PRIVATE_KEY"), `\n`, "\n")

	config.Voice.PublicKey = viper.GetString("VAPI_PUBLIC_KEY")
	config.Voice.URL = viper.GetString("VAPI_URL")
	config.Voice.GenerateWorkflowID = viper.GetString("VAPI_GENERATE_WORKFLOW_ID")
	config.Voice.InterviewTemplateID = viper.GetString("VAPI_INTERVIEW_TEMPLATE_ID")

	config.API.BaseURL = viper.GetString("API_BASE_URL")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")

	log.Info().
		Str("port", config.Server.Port).
		Str("store", config.Store.Backend).
		Str("geminiModel", config.GeminiModel).
		Bool("geminiKeySet", config.GeminiApiKey != "").
		Msg("Config loaded")
	return &config, nil

}
