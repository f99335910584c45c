// Package config loads the process configuration from a TOML file with
// environment-variable overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultPlatformBotName = "NowSecure Platform"
	DefaultActionLabel     = "View Assessment"
	DefaultSlashCommand    = "/appvetting"
	DefaultLookupTimeout   = 10
	DefaultAuditPath       = "vetting-audit.log"
)

type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Slack     SlackConfig     `toml:"slack"`
	NowSecure NowSecureConfig `toml:"nowsecure"`
	AppStore  AppStoreConfig  `toml:"appstore"`
	Audit     AuditConfig     `toml:"audit"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type SlackConfig struct {
	BotToken        string `toml:"bot_token" validate:"required"`
	AppToken        string `toml:"app_token" validate:"required"`
	PlatformBotName string `toml:"platform_bot_name"`
	ActionLabel     string `toml:"action_label"`
	Command         string `toml:"command"`
}

type NowSecureConfig struct {
	APIToken      string `toml:"api_token" validate:"required"`
	GroupID       string `toml:"group_id" validate:"required"`
	LabBaseURL    string `toml:"lab_base_url"`
	ReportBaseURL string `toml:"report_base_url"`
}

type AppStoreConfig struct {
	LookupBaseURL        string `toml:"lookup_base_url"`
	LookupTimeoutSeconds int    `toml:"lookup_timeout_seconds"`
}

type AuditConfig struct {
	Path string `toml:"path"`
}

// Load reads the TOML file at path, fills defaults, applies credential
// overrides from the environment, and validates that every required
// credential is present. A missing file is not an error; the environment can
// carry the full required set.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Slack: SlackConfig{
			PlatformBotName: DefaultPlatformBotName,
			ActionLabel:     DefaultActionLabel,
			Command:         DefaultSlashCommand,
		},
		AppStore: AppStoreConfig{
			LookupTimeoutSeconds: DefaultLookupTimeout,
		},
		Audit: AuditConfig{
			Path: DefaultAuditPath,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays credentials from the environment. Environment values win
// over the file so deployments can keep secrets out of it.
func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"SLACK_BOT_TOKEN", &cfg.Slack.BotToken},
		{"SLACK_APP_TOKEN", &cfg.Slack.AppToken},
		{"NOWSECURE_API_TOKEN", &cfg.NowSecure.APIToken},
		{"NOWSECURE_GROUP_ID", &cfg.NowSecure.GroupID},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
		}
	}
}

// envVarNames maps validated struct fields to the environment variables that
// can supply them, for actionable startup errors.
var envVarNames = map[string]string{
	"Config.Slack.BotToken":     "SLACK_BOT_TOKEN",
	"Config.Slack.AppToken":     "SLACK_APP_TOKEN",
	"Config.NowSecure.APIToken": "NOWSECURE_API_TOKEN",
	"Config.NowSecure.GroupID":  "NOWSECURE_GROUP_ID",
}

// Validate checks that all required credentials are set, naming every missing
// one in a single aggregated error.
func Validate(cfg Config) error {
	v := validator.New()
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var missing []string
	for _, fe := range verrs {
		name, ok := envVarNames[fe.Namespace()]
		if !ok {
			name = fe.Namespace()
		}
		missing = append(missing, name)
	}
	return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
}
