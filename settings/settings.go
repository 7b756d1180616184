// Package settings loads goservice configuration from files and the environment.
//
// A settings file looks like:
//
//	log:
//	  level: debug
//	  human_readable: true
//	  invocations: true
//	i18n:
//	  locale: fr
//	  fallback_locale: en
//	  paths: [locales/en.yaml, locales/fr.yaml]
//	define_context_accessors: true
//
// Every key can be overridden from the environment with the GOSERVICE prefix,
// dots replaced by underscores (GOSERVICE_LOG_LEVEL, GOSERVICE_I18N_LOCALE).
package settings

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/davidroman0O/goservice"
	"github.com/davidroman0O/goservice/i18n"
	"github.com/davidroman0O/goservice/internal/validate"
	"github.com/davidroman0O/goservice/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GOSERVICE"

// Settings is the file-backed configuration of contexts and code generation.
type Settings struct {
	Log                    LogSettings  `mapstructure:"log"`
	I18n                   I18nSettings `mapstructure:"i18n"`
	DefineContextAccessors bool         `mapstructure:"define_context_accessors"`
}

// LogSettings configures the zerolog logger handed to contexts.
type LogSettings struct {
	Level         string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	HumanReadable bool   `mapstructure:"human_readable"`
	// Invocations adds a middleware writing one entry per action invocation
	Invocations bool `mapstructure:"invocations"`
}

// I18nSettings configures the translation catalog.
type I18nSettings struct {
	Locale         string   `mapstructure:"locale" validate:"required"`
	FallbackLocale string   `mapstructure:"fallback_locale"`
	Paths          []string `mapstructure:"paths" validate:"dive,required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.human_readable", false)
	v.SetDefault("log.invocations", false)
	v.SetDefault("i18n.locale", "en")
	v.SetDefault("i18n.fallback_locale", "")
	v.SetDefault("i18n.paths", []string{})
	v.SetDefault("define_context_accessors", false)
}

// Load reads the settings file at path, applies environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("settings: read %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("settings: decode: %w", err)
	}
	s.Log.Level = strings.ToLower(s.Log.Level)

	if err := validate.Struct(s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logger builds the zerolog logger described by the settings, writing to w.
func (s *Settings) Logger(w io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:         s.Log.Level,
		HumanReadable: s.Log.HumanReadable,
		Writer:        w,
	})
}

// Translator builds the catalog described by the settings.
// Without catalog paths it returns goservice.NullTranslator.
func (s *Settings) Translator() (goservice.Translator, error) {
	if len(s.I18n.Paths) == 0 {
		return goservice.NullTranslator{}, nil
	}

	var opts []i18n.Option
	if s.I18n.FallbackLocale != "" {
		opts = append(opts, i18n.WithFallbackLocale(s.I18n.FallbackLocale))
	}
	return i18n.Load(s.I18n.Locale, s.I18n.Paths, opts...)
}

// Options turns the settings into context options, logging to w.
func (s *Settings) Options(w io.Writer) ([]goservice.Option, error) {
	logger, err := s.Logger(w)
	if err != nil {
		return nil, err
	}

	translator, err := s.Translator()
	if err != nil {
		return nil, err
	}

	opts := []goservice.Option{
		goservice.WithLogger(logger),
		goservice.WithTranslator(translator),
	}
	if s.Log.Invocations {
		opts = append(opts, goservice.WithMiddleware(logging.Middleware(logger)))
	}
	return opts, nil
}
