package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Signup SignupConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	PublicURL string // origen usado en los enlaces de invitación y en los emails
	LogLevel  string
	Storage   string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	// Tamaño y reciclado del pool.
	MaxConns               int
	MinConns               int
	MaxConnLifetimeMinutes int
	MaxConnIdleMinutes     int
	// ForceIPv4 marca las conexiones como tcp4 (hosts sin ruta IPv6).
	ForceIPv4 bool
}

// MaxConnLifetime vida máxima de una conexión del pool.
func (c DBConfig) MaxConnLifetime() time.Duration {
	return time.Duration(c.MaxConnLifetimeMinutes) * time.Minute
}

// MaxConnIdleTime tiempo máximo de una conexión ociosa en el pool.
func (c DBConfig) MaxConnIdleTime() time.Duration {
	return time.Duration(c.MaxConnIdleMinutes) * time.Minute
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de access tokens y sesiones.
type JWTConfig struct {
	Secret          string
	Expiration      int // minutos
	Issuer          string
	RefreshTTLHours int
}

// RefreshTTL duración de un refresh token.
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLHours) * time.Hour
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig almacén de sesiones de refresco.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig servidor de correo para las notificaciones.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled informa si hay un servidor SMTP configurado.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// SignupConfig parámetros del flujo de registro.
type SignupConfig struct {
	PhoneRegion          string
	NotifyTimeoutSeconds int
}

// NotifyTimeout timeout de cada notificación fire-and-forget.
func (c SignupConfig) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "mentoria-api"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", "http://localhost:8080"), "/"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			Storage:   getString(v, "STORAGE_DRIVER", "postgres"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "mentoria"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),

			MaxConns:               getInt(v, "DB_MAX_CONNS", 10),
			MinConns:               getInt(v, "DB_MIN_CONNS", 1),
			MaxConnLifetimeMinutes: getInt(v, "DB_MAX_CONN_LIFETIME_MINUTES", 60),
			MaxConnIdleMinutes:     getInt(v, "DB_MAX_CONN_IDLE_MINUTES", 30),
			ForceIPv4:              getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:          getString(v, "JWT_SECRET", ""),
			Expiration:      getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:          getString(v, "JWT_ISSUER", "mentoria-api"),
			RefreshTTLHours: getInt(v, "REFRESH_TTL_HOURS", 24*30),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "hello@mentoria.local"),
		},
		Signup: SignupConfig{
			PhoneRegion:          strings.ToUpper(getString(v, "PHONE_REGION", "GB")),
			NotifyTimeoutSeconds: getInt(v, "NOTIFY_TIMEOUT_SECONDS", 15),
		},
	}

	if cfg.App.Storage != "postgres" && cfg.App.Storage != "memory" {
		return nil, fmt.Errorf("STORAGE_DRIVER inválido: %q", cfg.App.Storage)
	}
	if cfg.DB.MaxConns < 1 || cfg.DB.MinConns < 0 || cfg.DB.MinConns > cfg.DB.MaxConns {
		return nil, fmt.Errorf("pool de DB inválido: DB_MIN_CONNS=%d DB_MAX_CONNS=%d", cfg.DB.MinConns, cfg.DB.MaxConns)
	}
	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
