package bisquit

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultKeyUpDelay is the pause after the last keystroke before a
// live-typing dispatch fires.
const DefaultKeyUpDelay = 500 * time.Millisecond

// Config holds the tunables of a page.
type Config struct {
	// KeyUpDelay is the debounce window for live-typing dispatches.
	KeyUpDelay time.Duration `yaml:"keyup_delay"`
	// StrictMarkup raises unknown declarative attributes from debug to
	// warning level.
	StrictMarkup bool `yaml:"strict_markup"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{KeyUpDelay: DefaultKeyUpDelay}
}

// LoadConfig reads a YAML configuration file. Missing keys keep their
// defaults.
//
//	keyup_delay: 300ms
//	strict_markup: true
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("bisquit: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("bisquit: parse config %s: %w", path, err)
	}
	if cfg.KeyUpDelay < 0 {
		return cfg, fmt.Errorf("bisquit: parse config %s: negative keyup_delay", path)
	}
	return cfg, nil
}

// Option configures a Page.
type Option func(*options)

type options struct {
	cfg       Config
	logger    *zap.Logger
	transport Transport
	confirm   func(message string) bool
	layout    Layout
	ctx       context.Context
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithKeyUpDelay sets the live-typing debounce window.
func WithKeyUpDelay(d time.Duration) Option {
	return func(o *options) {
		o.cfg.KeyUpDelay = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTransport sets how remote dispatches reach their endpoint.
// Defaults to an HTTPTransport using http.DefaultClient.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithConfirm sets the prompt used for data-confirm clicks. It returns
// whether the user affirmed. Defaults to affirming every prompt.
func WithConfirm(fn func(message string) bool) Option {
	return func(o *options) {
		o.confirm = fn
	}
}

// WithLayout provides element geometry so overlays can be sized.
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithContext sets the context remote exchanges run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func buildOptions(opts []Option) *options {
	o := &options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(nil, "")
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	return o
}
