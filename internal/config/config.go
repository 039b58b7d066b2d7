package config

import (
	"log"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Mail provider names accepted by MAIL_PROVIDER.
const (
	MailProviderSendgrid = "sendgrid"
	MailProviderConsole  = "console"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                     string
	MongoURI                 string
	MongoDatabase            string
	PingCollection           string
	QuestionCollection       string
	SubmissionCollection     string
	TemplateCollection       string
	FailedDeliveryCollection string
	Timeout                  time.Duration
	Timezone                 string
	ServerLog                *log.Logger
	JWTConfigs               []JWTConfig
	JWTAudience              string
	AllowedOrigins           []string
	MailProvider             string
	SendgridAPIKey           string
	MailFrom                 mail.Address
	MessengerEndpoint        string
	DiscordDestination       string
	SlackDestination         string
	MessengerTimeout         time.Duration
	AdminSubmissionBaseURL   string
}

// Load reads environment variables and returns a fully populated Config.
// DOTENV_PATH（既定 .env）のファイルを先に読み込む。既存の環境変数は上書きしない。
func Load() Config {
	path := envOrDefault("DOTENV_PATH", ".env")
	if err := loadDotenv(path); err != nil {
		log.Fatalf("config.godotenv(%s): %v", path, err)
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatal(err)
	}

	cfg.ServerLog.Printf("loaded config: mailProvider=%q mailFrom=%q messengerEndpoint=%q adminSubmissionBaseURL=%q",
		cfg.MailProvider, cfg.MailFrom.Address, cfg.MessengerEndpoint, cfg.AdminSubmissionBaseURL)
	return cfg
}

// loadDotenv はファイルが無ければ何もしない。
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Parse builds a Config from the current environment without exiting on error.
func Parse() (Config, error) {
	timeout := parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	messengerTimeout := parseDuration("MESSENGER_GATEWAY_TIMEOUT", 3*time.Second)

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "growth-iq-admin"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		return Config{}, errors.New("JWT secret not configured. Set AUTH_ADMIN_JWT_SECRET.")
	}

	// MAIL_PROVIDER 未指定時は API キーがあれば sendgrid を使う。
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	defaultProvider := MailProviderConsole
	if apiKey != "" {
		defaultProvider = MailProviderSendgrid
	}
	provider := strings.ToLower(envOrDefault("MAIL_PROVIDER", defaultProvider))
	switch provider {
	case MailProviderSendgrid:
		if apiKey == "" {
			return Config{}, errors.New("SENDGRID_API_KEY must be configured when MAIL_PROVIDER=sendgrid")
		}
	case MailProviderConsole:
	default:
		return Config{}, errors.Errorf("unsupported MAIL_PROVIDER %q", provider)
	}

	fromAddress := envOrDefault("MAIL_FROM_ADDRESS", "reports@legacygrowthpartners.com")
	if _, err := mail.ParseAddress(fromAddress); err != nil {
		return Config{}, errors.Wrapf(err, "invalid MAIL_FROM_ADDRESS %q", fromAddress)
	}

	cfg := Config{
		Addr:                     envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                 envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:            envOrDefault("MONGO_DB", "growth-iq"),
		PingCollection:           envOrDefault("PING_COLLECTION", "pings"),
		QuestionCollection:       envOrDefault("QUESTION_COLLECTION", "quiz_questions"),
		SubmissionCollection:     envOrDefault("SUBMISSION_COLLECTION", "quiz_submissions"),
		TemplateCollection:       envOrDefault("TEMPLATE_COLLECTION", "report_templates"),
		FailedDeliveryCollection: envOrDefault("FAILED_DELIVERY_COLLECTION", "failed_deliveries"),
		Timeout:                  timeout,
		Timezone:                 envOrDefault("TIMEZONE", "America/New_York"),
		ServerLog:                log.New(os.Stdout, "[growth-iq-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:               jwtConfigs,
		JWTAudience:              strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AllowedOrigins:           parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MailProvider:             provider,
		SendgridAPIKey:           apiKey,
		MailFrom: mail.Address{
			Name:    envOrDefault("MAIL_FROM_NAME", "Legacy Growth Partners"),
			Address: fromAddress,
		},
		MessengerEndpoint:      strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")),
		DiscordDestination:     strings.TrimSpace(os.Getenv("MESSENGER_DISCORD_DESTINATION")),
		SlackDestination:       strings.TrimSpace(os.Getenv("MESSENGER_SLACK_DESTINATION")),
		MessengerTimeout:       messengerTimeout,
		AdminSubmissionBaseURL: strings.TrimSpace(os.Getenv("ADMIN_SUBMISSION_BASE_URL")),
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when the zone database lacks it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		if c.ServerLog != nil {
			c.ServerLog.Printf("タイムゾーン %q の読み込みに失敗したため UTC を使用します: %v", c.Timezone, err)
		}
		return time.UTC
	}
	return loc
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
