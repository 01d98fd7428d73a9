package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	Blob        BlobConfig
	Logger      LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
	// Timeout is applied to every store operation whose caller did not set
	// a deadline of its own.
	Timeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// CatalogTTL bounds how long cached public-quiz listings are served.
	CatalogTTL time.Duration
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type BlobConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("mongo.uri"),
			Database: viper.GetString("mongo.database"),
			Timeout:  viper.GetDuration("mongo.timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:    viper.GetString("redis.address"),
			Password:   viper.GetString("redis.password"),
			DB:         viper.GetInt("redis.db"),
			CatalogTTL: viper.GetDuration("redis.catalog_ttl") * time.Second,
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl") * time.Minute,
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl") * time.Minute,
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     viper.GetString("google_oauth.client_id"),
			ClientSecret: viper.GetString("google_oauth.client_secret"),
			RedirectURL:  viper.GetString("google_oauth.redirect_url"),
		},
		Blob: BlobConfig{
			Endpoint:        viper.GetString("blob.endpoint"),
			Region:          viper.GetString("blob.region"),
			Bucket:          viper.GetString("blob.bucket"),
			AccessKeyID:     viper.GetString("blob.access_key_id"),
			SecretAccessKey: viper.GetString("blob.secret_access_key"),
			PublicURL:       viper.GetString("blob.public_url"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.Mongo.URI = uri
	}
	if database := os.Getenv("MONGO_DATABASE"); database != "" {
		config.Mongo.Database = database
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		config.GoogleOAuth.ClientID = clientID
	}
	if clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET"); clientSecret != "" {
		config.GoogleOAuth.ClientSecret = clientSecret
	}
	if accessKey := os.Getenv("BLOB_ACCESS_KEY_ID"); accessKey != "" {
		config.Blob.AccessKeyID = accessKey
	}
	if secretKey := os.Getenv("BLOB_SECRET_ACCESS_KEY"); secretKey != "" {
		config.Blob.SecretAccessKey = secretKey
	}

	// Defaults for optional knobs
	if config.Mongo.Timeout <= 0 {
		config.Mongo.Timeout = 10 * time.Second
	}
	if config.Redis.CatalogTTL <= 0 {
		config.Redis.CatalogTTL = 60 * time.Second
	}
	if config.JWT.AccessTokenTTL <= 0 {
		config.JWT.AccessTokenTTL = 15 * time.Minute
	}
	if config.JWT.RefreshTokenTTL <= 0 {
		config.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	}

	return config, nil
}
