// Package config provides configuration loading, validation, and defaults for
// the clinic bot. Values come from config.yaml, overridable through BOT_*
// environment variables.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Line      LineConfig      `mapstructure:"line"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Clinic    ClinicConfig    `mapstructure:"clinic"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// LineConfig holds LINE Messaging API credentials and flow endpoints.
type LineConfig struct {
	ChannelSecret string `mapstructure:"channel_secret" validate:"required"`
	ChannelToken  string `mapstructure:"channel_token"  validate:"required"`
	LiffID        string `mapstructure:"liff_id"`
	BookingURL    string `mapstructure:"booking_url" validate:"omitempty,url"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ClinicConfig holds the clinic details rendered into the info card.
type ClinicConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Tagline string `mapstructure:"tagline"`
	Address string `mapstructure:"address" validate:"required"`
	Phone   string `mapstructure:"phone" validate:"required"`
	Hours   string `mapstructure:"hours" validate:"required"`
	Transit string `mapstructure:"transit"`
	MapURL  string `mapstructure:"map_url" validate:"omitempty,url"`
}

// MessagesConfig holds the canned reply texts.
type MessagesConfig struct {
	Greeting         string `mapstructure:"greeting"           validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	BookingPrompt    string `mapstructure:"booking_prompt"     validate:"required"`
	Unknown          string `mapstructure:"unknown"            validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	ConsultFallback  string `mapstructure:"consult_fallback"   validate:"required"`
	CategoryNotFound string `mapstructure:"category_not_found" validate:"required"`
	DoctorListHeader string `mapstructure:"doctor_list_header" validate:"required"`
	DoctorListFooter string `mapstructure:"doctor_list_footer"`
}

// TaskConfig enables a scheduled task and sets its cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Validate checks the configuration against the struct validation tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
