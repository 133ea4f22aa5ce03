package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env       string `validate:"required,oneof=development staging production test"`
	Server    ServerConfig
	Database  DatabaseConfig
	Supabase  SupabaseConfig
	Guard     GuardConfig
	Realtime  RealtimeConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	I18n      I18nConfig
}

type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	Host    string
	BaseURL string `validate:"required,url"` // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string `validate:"required"`
	Port        int    `validate:"required,min=1,max=65535"`
	User        string `validate:"required"`
	Password    string
	DBName      string `validate:"required"`
	SSLMode     string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns    int    `validate:"min=1"`
	MinConns    int    `validate:"min=0,ltefield=MaxConns"`
	MaxIdleTime int    `validate:"min=0"`
}

// SupabaseConfig contém os dados para validar access tokens do Supabase Auth
type SupabaseConfig struct {
	URL       string `validate:"omitempty,url"`
	JWTSecret string `validate:"required,min=32"`
	Audience  string `validate:"required"`
}

// GuardConfig define para onde e quando o acesso negado redireciona
type GuardConfig struct {
	RedirectPath  string        `validate:"required,startswith=/"`
	RedirectDelay time.Duration `validate:"min=0"`
}

type RealtimeConfig struct {
	Enabled bool
	Channel string `validate:"required_if=Enabled true"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"min=1"`
}

type LoggingConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	LocalesDir      string // vazio usa as traduções embutidas
	DefaultLanguage string `validate:"required"`
}

// Load carrega as configurações do ambiente, usando o arquivo .env quando existir
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			JWTSecret: v.GetString("SUPABASE_JWT_SECRET"),
			Audience:  v.GetString("SUPABASE_JWT_AUDIENCE"),
		},
		Guard: GuardConfig{
			RedirectPath:  v.GetString("GUARD_REDIRECT_PATH"),
			RedirectDelay: v.GetDuration("GUARD_REDIRECT_DELAY"),
		},
		Realtime: RealtimeConfig{
			Enabled: v.GetBool("REALTIME_ENABLED"),
			Channel: v.GetString("REALTIME_CHANNEL"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("LOCALES_DIR"),
			DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "require")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("SUPABASE_JWT_AUDIENCE", "authenticated")
	v.SetDefault("GUARD_REDIRECT_PATH", "/")
	v.SetDefault("GUARD_REDIRECT_DELAY", "2s")
	v.SetDefault("REALTIME_ENABLED", false)
	v.SetDefault("REALTIME_CHANNEL", "loja_usuarios_changes")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_LANGUAGE", "pt-BR")
}

// Validate verifica as regras declaradas nas tags validate
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL retorna a connection string no formato URL (usada pelo listener do lib/pq)
func (d *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Issuer retorna o emissor esperado nos tokens (vazio desativa a checagem)
func (s *SupabaseConfig) Issuer() string {
	if s.URL == "" {
		return ""
	}
	return s.URL + "/auth/v1"
}
