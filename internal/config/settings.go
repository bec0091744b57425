package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings is the runtime configuration. Precedence: environment (BIRTHDAY_*),
// then the optional YAML file, then the defaults below.
type Settings struct {
	Server    ServerSettings    `mapstructure:"server"`
	OnThisDay OnThisDaySettings `mapstructure:"onthisday"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Insights  InsightsSettings  `mapstructure:"insights"`
	Contacts  ContactsSettings  `mapstructure:"contacts"`
}

type ServerSettings struct {
	Bind string `mapstructure:"bind" validate:"required,ip|hostname"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

type OnThisDaySettings struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Fallback bool          `mapstructure:"fallback"`
	// Token is sent as a bearer token. When empty the OS keyring is consulted.
	Token string `mapstructure:"token"`
}

type CacheSettings struct {
	// TTL of 0 disables caching.
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type InsightsSettings struct {
	PageSize        int           `mapstructure:"page_size" validate:"gte=1,lte=100"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"gt=0"`
	Language        string        `mapstructure:"language" validate:"oneof=en fr"`
}

// ContactsSettings points at an optional vCard collection served as a birthday calendar.
type ContactsSettings struct {
	Path     string `mapstructure:"path"`
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether a contact source is configured.
func (c ContactsSettings) Enabled() bool {
	return c.Path != "" || c.URL != ""
}

// Addr returns the listen address of the HTTP server.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s%s%d", s.Bind, AddrSeparator, s.Port)
}

var settingDefaults = map[string]any{
	KeyServerBind:        LocalhostBindAddr,
	KeyServerPort:        DefaultPort,
	KeyOnThisDayBaseURL:  DefaultOnThisDayURL,
	KeyOnThisDayTimeout:  HTTPTimeout,
	KeyOnThisDayFallback: true,
	KeyOnThisDayToken:    "",
	KeyCacheTTL:          DefaultOnThisDayTTL,
	KeyInsightsPageSize:  DefaultPageSize,
	KeyInsightsRefresh:   DefaultRefreshInterval,
	KeyInsightsLanguage:  DefaultLanguage,
	KeyContactsPath:      "",
	KeyContactsURL:       "",
	KeyContactsUser:      "",
	KeyContactsPassword:  "",
}

// LoadSettings reads the settings. path may be empty.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	for key, value := range settingDefaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType(ConfigFileType)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		}
		slog.Info(MsgSettingsFile,
			LogKeyComponent, CompSettings,
			LogKeyFile, v.ConfigFileUsed(),
		)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range settingDefaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsDecode, err)
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsInvalid, err)
	}
	return &s, nil
}
