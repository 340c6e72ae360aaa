// Ininicializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig     `mapstructure:"server"`
	StatsServer   ServerConfig     `mapstructure:"stats_server"`
	Database      DatabaseConfig   `mapstructure:"database"`
	StatsDatabase DatabaseConfig   `mapstructure:"stats_database"`
	App           AppConfig        `mapstructure:"app"`
	StatsClient   StatClientConfig `mapstructure:"stats_client"`
}

type ServerConfig struct {
	AppVersion   string `json:"appVersion"`
	Host         string `json:"host" validate:"required"`
	Port         string `json:"port" validate:"required"`
	Timeout      time.Duration
	Idle_timeout time.Duration
	Env          string `json:"environment"`
	Mode         string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type AppConfig struct {
	// Имя приложения, которое подставляется в записи о просмотрах
	Name string `mapstructure:"name"`
}

type StatClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.appVersion", "1.0.0")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("stats_server.host", "localhost")
	v.SetDefault("stats_server.port", "9090")
	v.SetDefault("stats_server.timeout", 30*time.Second)
	v.SetDefault("stats_server.idle_timeout", 60*time.Second)
	v.SetDefault("stats_server.mode", "debug")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "afisha_user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "afisha")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("stats_database.host", "localhost")
	v.SetDefault("stats_database.port", 5432)
	v.SetDefault("stats_database.user", "afisha_user")
	v.SetDefault("stats_database.password", "password")
	v.SetDefault("stats_database.dbname", "afisha_stats")
	v.SetDefault("stats_database.sslmode", "disable")
	v.SetDefault("stats_database.max_open_conns", 25)
	v.SetDefault("stats_database.max_idle_conns", 5)
	v.SetDefault("stats_database.conn_max_lifetime", 5*time.Minute)

	// App defaults
	v.SetDefault("app.name", "afisha-main-service")

	// Stats client defaults
	v.SetDefault("stats_client.base_url", "http://localhost:9090")
	v.SetDefault("stats_client.timeout", 5*time.Second)
}

// GetEnv получает переменную окружения с fallback значением
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
