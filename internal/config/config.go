package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backends de persistência suportados
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config armazena as configurações da aplicação
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	LogJSON  bool

	// Autenticação da API: token em claro ou hash bcrypt (um dos dois)
	TokenAPI     string
	TokenAPIHash string

	// Persistência
	StoreBackend string
	DataDir      string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string

	// Notificações
	NotifWebhookURL  string
	NotifTickSeconds int
}

// ErrMissingToken indica que nenhum token de API foi configurado
var ErrMissingToken = errors.New("TOKEN_API ou TOKEN_API_HASH não configurado")

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./backend/.env
	_ = godotenv.Load("../.env") // ./.env (raiz do projeto)

	cfg := &Config{
		Port:     os.Getenv("PORT"),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		TokenAPI:     os.Getenv("TOKEN_API"),
		TokenAPIHash: os.Getenv("TOKEN_API_HASH"),

		StoreBackend: os.Getenv("STORE_BACKEND"),
		DataDir:      os.Getenv("DATA_DIR"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBSSLMode:    os.Getenv("DB_SSLMODE"),

		NotifWebhookURL: os.Getenv("NOTIF_WEBHOOK_URL"),
	}

	// Validações obrigatórias
	if cfg.TokenAPI == "" && cfg.TokenAPIHash == "" {
		return nil, ErrMissingToken
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = "debug"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = StoreFile
	}
	if cfg.StoreBackend != StoreFile && cfg.StoreBackend != StorePostgres {
		return nil, errors.New("STORE_BACKEND inválido, esperado file ou postgres")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = os.TempDir()
	}
	if cfg.DBHost == "" {
		cfg.DBHost = "127.0.0.1"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}

	cfg.NotifTickSeconds = 60
	if v := os.Getenv("NOTIF_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifTickSeconds = n
		}
	}

	return cfg, nil
}
