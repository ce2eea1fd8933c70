package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional config file, and BOT_*
// environment variables, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; credentials can come from the
		// environment. Anything else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !isNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isNotExist reports whether err is a missing-file error. Viper returns a
// plain path error when an explicit config file path does not exist.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("database.path", DefaultDBPath)

	// Viper only consults the environment for keys it already knows about, so
	// the line block needs (empty) defaults even though the credentials are
	// required. Without these, BOT_LINE_CHANNEL_SECRET and friends are ignored.
	v.SetDefault("line.channel_secret", "")
	v.SetDefault("line.channel_token", "")
	v.SetDefault("line.liff_id", "")
	v.SetDefault("line.booking_url", "")

	v.SetDefault("clinic.name", DefaultClinic.Name)
	v.SetDefault("clinic.tagline", DefaultClinic.Tagline)
	v.SetDefault("clinic.address", DefaultClinic.Address)
	v.SetDefault("clinic.phone", DefaultClinic.Phone)
	v.SetDefault("clinic.hours", DefaultClinic.Hours)
	v.SetDefault("clinic.transit", DefaultClinic.Transit)
	v.SetDefault("clinic.map_url", DefaultClinic.MapURL)

	v.SetDefault("messages.greeting", DefaultMessages.Greeting)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.booking_prompt", DefaultMessages.BookingPrompt)
	v.SetDefault("messages.unknown", DefaultMessages.Unknown)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.consult_fallback", DefaultMessages.ConsultFallback)
	v.SetDefault("messages.category_not_found", DefaultMessages.CategoryNotFound)
	v.SetDefault("messages.doctor_list_header", DefaultMessages.DoctorListHeader)
	v.SetDefault("messages.doctor_list_footer", DefaultMessages.DoctorListFooter)

	v.SetDefault("scheduler.tasks.aftercare_sweep.enabled", true)
	v.SetDefault("scheduler.tasks.aftercare_sweep.schedule", DefaultAftercareSchedule)
	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", DefaultMaintenanceSchedule)
}
