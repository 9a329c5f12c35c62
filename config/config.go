package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr string
	DBDriver   string
	DBDSN      string
	JWTSecret  string
	RedisAddr  string
}

func Load() *Config {
	// Missing .env is fine, plain environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LISTEN_ADDR", ":8000")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "admin:12345678@tcp(127.0.0.1:3306)/organizo?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("JWT_SECRET", "supersecretkey")
	v.SetDefault("REDIS_ADDR", "")

	return &Config{
		ListenAddr: v.GetString("LISTEN_ADDR"),
		DBDriver:   v.GetString("DB_DRIVER"),
		DBDSN:      v.GetString("DB_DSN"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		RedisAddr:  v.GetString("REDIS_ADDR"),
	}
}
