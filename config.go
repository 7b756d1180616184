package goservice

import "context"

// Config holds the collaborators a Context and the actions running against it use.
// A Config is attached to a Context when the Context is built and is read
// from there by every action invocation; it is never consulted globally.
type Config struct {
	// Logger receives lifecycle diagnostics and is exposed to actions via Context.Logger
	Logger Logger
	// Translator resolves symbolic status messages passed to FailKey and SucceedKey
	Translator Translator
	// Middleware wraps every action invocation against the context, outermost first
	Middleware []ActionMiddleware

	goContext context.Context
}

// Option is a function that configures a Config
type Option func(*Config)

// WithLogger sets the logger used by actions running against the context
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTranslator sets the backend used to resolve symbolic status messages
func WithTranslator(translator Translator) Option {
	return func(c *Config) {
		if translator != nil {
			c.Translator = translator
		}
	}
}

// WithMiddleware appends middleware to the invocation chain
func WithMiddleware(middleware ...ActionMiddleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, middleware...)
	}
}

// WithGoContext sets the parent context.Context used by tracing middleware
func WithGoContext(ctx context.Context) Option {
	return func(c *Config) {
		c.goContext = ctx
	}
}

// WithConfig copies every field of cfg, letting one Config be shared between
// many contexts while each context keeps its own copy.
func WithConfig(cfg *Config) Option {
	return func(c *Config) {
		if cfg == nil {
			return
		}
		*c = *cfg
		c.Middleware = append([]ActionMiddleware(nil), cfg.Middleware...)
		c.fillDefaults()
	}
}

// NewConfig creates a Config with defaults applied before the given options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *Config) fillDefaults() {
	if c.Logger == nil {
		c.Logger = NewNopLogger()
	}
	if c.Translator == nil {
		c.Translator = NullTranslator{}
	}
	if c.goContext == nil {
		c.goContext = context.Background()
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NewNopLogger returns the Logger used when none is configured; it discards everything.
func NewNopLogger() Logger {
	return nopLogger{}
}

// NullTranslator is the default Translator. It performs no lookup and returns
// the primary key unchanged.
type NullTranslator struct{}

// Translate implements Translator.
func (NullTranslator) Translate(key string, _ []string) string {
	return key
}
