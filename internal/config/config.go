package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Host, User, Password, DBName, SSLMode string
	Port                                  int
	MaxConnections, MaxIdle               int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	WebHost       string
	WebPort       int
	PublicBaseURL string
	DB            DBConfig
	Redis         RedisConfig
	Log           LogConfig
}

// Load reads configuration from an optional config file, with environment
// variables taking precedence. A .env file in the working directory is
// honored for local development.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("public_base_url", "http://localhost:8080")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("db.max_connections", 10)
	viper.SetDefault("db.max_idle", 5)
	viper.SetDefault("redis.address", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		_ = viper.ReadInConfig() // ignore missing config file
	}

	c := Config{
		WebHost:       viper.GetString("web.host"),
		WebPort:       viper.GetInt("web.port"),
		PublicBaseURL: viper.GetString("public_base_url"),
		DB: DBConfig{
			Host:           viper.GetString("db.host"),
			Port:           viper.GetInt("db.port"),
			User:           viper.GetString("db.user"),
			Password:       viper.GetString("db.password"),
			DBName:         viper.GetString("db.name"),
			SSLMode:        viper.GetString("db.sslmode"),
			MaxConnections: viper.GetInt("db.max_connections"),
			MaxIdle:        viper.GetInt("db.max_idle"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}

	// ---- OVERRIDE WITH ENV VARS (STRICT) ----
	if v := os.Getenv("PERMISSIONLINK_WEB_HOST"); v != "" {
		c.WebHost = v
	}
	if v := os.Getenv("PERMISSIONLINK_WEB_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.WebPort)
	}
	if v := os.Getenv("PERMISSIONLINK_PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := os.Getenv("PERMISSIONLINK_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("PERMISSIONLINK_DB_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.DB.Port)
	}
	if v := os.Getenv("PERMISSIONLINK_DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("PERMISSIONLINK_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("PERMISSIONLINK_DB_NAME"); v != "" {
		c.DB.DBName = v
	}
	if v := os.Getenv("PERMISSIONLINK_REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("PERMISSIONLINK_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PERMISSIONLINK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if c.DB.User == "" || c.DB.DBName == "" {
		return Config{}, fmt.Errorf("database user and name must be configured")
	}

	return c, nil
}
