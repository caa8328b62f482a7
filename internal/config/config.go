package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" env-default:"8080"`

	DBUser     string `env:"DB_USER" env-required:"true"`
	DBPassword string `env:"DB_PASSWORD" env-required:"true"`
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBName     string `env:"DB_NAME" env-required:"true"`

	// RMQURL is optional; when empty the server falls back to the
	// in-process queue and cmd/worker is not needed.
	RMQURL       string `env:"RMQ_URL"`
	WebhookQueue string `env:"WEBHOOK_QUEUE" env-default:"webhook_events"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	WhatsAppAPIURL      string `env:"WHATSAPP_API_URL" env-default:"https://graph.facebook.com/v18.0"`
	WhatsAppPhoneID     string `env:"WHATSAPP_PHONE_NUMBER_ID" env-required:"true"`
	WhatsAppAccessToken string `env:"WHATSAPP_ACCESS_TOKEN" env-required:"true"`
	WhatsAppVerifyToken string `env:"WHATSAPP_VERIFY_TOKEN" env-required:"true"`

	WebsiteURL  string `env:"WEBSITE_URL" env-required:"true"`
	CheckoutURL string `env:"CHECKOUT_URL" env-required:"true"`
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
