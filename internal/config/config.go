// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RabbitMQURL             string `yaml:"rabbitmq_url"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"60m"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// redactDSN скрывает пароль в строке подключения перед выводом в лог.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "[redacted]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
	}
	return u.String()
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RabbitMQURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		redactDSN(c.StorageConnectionString),
		c.MigrationsPath,
		redactDSN(c.RabbitMQURL),
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
	)
}
