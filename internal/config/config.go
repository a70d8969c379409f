package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/validator"
)

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type LoggingConfig struct {
	App     SlogConfig `mapstructure:"app"`
	UseOTLP bool       `mapstructure:"use_otlp"`
}

// WebhookConfig holds the automation webhook URLs that receive forwarded
// form submissions. Any of these may be unset; the owning endpoint then
// reports "Server not configured" instead of dispatching.
type WebhookConfig struct {
	CoachingURL      string `mapstructure:"coaching_url"`
	QuestionnaireURL string `mapstructure:"questionnaire_url"`
	LeadsURL         string `mapstructure:"leads_url"`
}

type EmailConfig struct {
	APIKey       string `mapstructure:"api_key"`
	From         string `mapstructure:"from"`
	NotifyTo     string `mapstructure:"notify_to"`
	KitPath      string `mapstructure:"kit_path"`
	KitPublicURL string `mapstructure:"kit_public_url"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// See siteapi.yaml for an example config
type Config struct {
	Logging              *LoggingConfig `mapstructure:"logging"`
	Webhooks             *WebhookConfig `mapstructure:"webhooks"`
	Email                *EmailConfig   `mapstructure:"email"`
	Stripe               *StripeConfig  `mapstructure:"stripe"`
	StaticDir            string         `mapstructure:"static_dir"`
	ListenAddress        string         `mapstructure:"listen_address"         validate:"required"`
	GracefulShutdownSecs int64          `mapstructure:"graceful_shutdown_secs"`
}

const (
	AppLogLevel          string = "logging.app.level"
	UseOTLP              string = "logging.use_otlp"
	EnvPrefix            string = "siteapi"
	ListenAddress        string = "listen_address"
	GracefulShutdownSecs string = "graceful_shutdown_secs"
	StaticDir            string = "static_dir"
	CoachingWebhookURL   string = "webhooks.coaching_url"
	QuestionnaireURL     string = "webhooks.questionnaire_url"
	LeadsWebhookURL      string = "webhooks.leads_url"
	EmailAPIKey          string = "email.api_key"
	EmailFrom            string = "email.from"
	EmailNotifyTo        string = "email.notify_to"
	EmailKitPath         string = "email.kit_path"
	EmailKitPublicURL    string = "email.kit_public_url"
	StripeSecretKey      string = "stripe.secret_key"     // #nosec
	StripeWebhookSecret  string = "stripe.webhook_secret" // #nosec
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("siteapi")

	v.AddConfigPath("/etc/siteapi/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested structs
	for _, key := range []string{
		CoachingWebhookURL,
		QuestionnaireURL,
		LeadsWebhookURL,
		EmailAPIKey,
		EmailFrom,
		EmailNotifyTo,
		EmailKitPath,
		EmailKitPublicURL,
		StripeSecretKey,
		StripeWebhookSecret,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault(ListenAddress, "[::]:1323")
	v.SetDefault(GracefulShutdownSecs, 30)
	v.SetDefault(AppLogLevel, int(slog.LevelInfo))
	v.SetDefault(UseOTLP, false)
	v.SetDefault(StaticDir, "web")
	v.SetDefault(EmailFrom, "Angel Coaching <onboarding@resend.dev>")
	v.SetDefault(EmailKitPath, "web/kit/fat-loss-starter-kit.pdf")

	err := v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(*viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	// absent sections behave like empty ones; the owning endpoints report
	// "Server not configured" for any value they need
	if config.Logging == nil {
		config.Logging = &LoggingConfig{App: SlogConfig{Level: int(slog.LevelInfo)}}
	}
	if config.Webhooks == nil {
		config.Webhooks = &WebhookConfig{}
	}
	if config.Email == nil {
		config.Email = &EmailConfig{}
	}
	if config.Stripe == nil {
		config.Stripe = &StripeConfig{}
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	configReady = true
	return &config, nil
}
