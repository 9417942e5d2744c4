package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"yourrest-api/media"
	"yourrest-api/repository"
	"yourrest-api/repository/mongostore"
	"yourrest-api/repository/sqlstore"
)

type Config struct {
	Port    string
	GinMode string

	JWTSecret   []byte
	JWTLifetime time.Duration

	StoreBackend string
	SQLitePath   string
	MongoURL     string
	MongoDB      string

	Media         media.Config
	MenuPreset    string
	ProfilePreset string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	Currency          string

	NATSURL           string
	ContactEndpoint   string
	InitialAdminEmail string
	PublicBaseURL     string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}

	hours, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be a positive integer")
	}

	port := getEnv("PORT", "8080")
	publicBaseURL := getEnv("PUBLIC_BASE_URL", "http://localhost:"+port)

	cfg := &Config{
		Port:         port,
		GinMode:      os.Getenv("GIN_MODE"),
		JWTSecret:    []byte(getEnv("JWT_SECRET", "yourrest_dev_secret")),
		JWTLifetime:  time.Duration(hours) * time.Hour,
		StoreBackend: getEnv("STORE_BACKEND", "sqlite"),
		SQLitePath:   getEnv("SQLITE_PATH", "yourrest.db"),
		MongoURL:     getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "yourrest"),
		Media: media.Config{
			Backend:       getEnv("MEDIA_BACKEND", "local"),
			CloudName:     os.Getenv("CLOUDINARY_CLOUD_NAME"),
			Directory:     getEnv("UPLOADS_DIR", "uploads"),
			PublicBaseURL: publicBaseURL,
		},
		MenuPreset:        getEnv("MEDIA_MENU_PRESET", "MenuImages"),
		ProfilePreset:     getEnv("MEDIA_PROFILE_PRESET", "profilePicture"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
		Currency:          getEnv("PAYMENT_CURRENCY", "INR"),
		NATSURL:           os.Getenv("NATS_URL"),
		ContactEndpoint:   os.Getenv("CONTACT_ENDPOINT"),
		InitialAdminEmail: os.Getenv("INITIAL_ADMIN_EMAIL"),
		PublicBaseURL:     publicBaseURL,
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Warn("JWT_SECRET not set, using the development secret")
	}
	return cfg, nil
}

// OpenStore connects the backend named by StoreBackend.
func OpenStore(ctx context.Context, cfg *Config) (*repository.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("database connected and migrated")
		return sqlstore.New(db), nil
	case "mongo":
		client, db, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, db), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
}
