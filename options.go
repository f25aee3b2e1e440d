package pulse

import (
	"go.uber.org/zap"

	"github.com/dshills/pulse/event"
)

// Option configures a Bus.
type Option func(*config)

// config contains bus configuration.
type config struct {
	// logger receives the bus's diagnostic output.
	logger *zap.Logger

	// otelMetrics enables OpenTelemetry instrumentation on the metrics
	// collector.
	otelMetrics bool
}

// defaultConfig returns the default bus configuration.
func defaultConfig() config {
	return config{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger the bus emits diagnostics to. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOTelMetrics mirrors per-type dispatch metrics to OpenTelemetry
// instruments on the global meter provider. If instrument registration
// fails, the bus logs a warning and falls back to in-memory metrics only.
func WithOTelMetrics() Option {
	return func(c *config) {
		c.otelMetrics = true
	}
}

// SubscriptionOption configures a subscription at registration time.
type SubscriptionOption func(*subscriptionConfig)

// subscriptionConfig contains per-subscription configuration.
type subscriptionConfig struct {
	priority event.Priority
	once     bool
}

// defaultSubscriptionConfig returns the default subscription configuration.
func defaultSubscriptionConfig() subscriptionConfig {
	return subscriptionConfig{
		priority: event.PriorityNormal,
	}
}

// WithPriority sets the tier a subscription is registered under. The tier
// governs both cascade order and which event priorities the subscription
// receives. Invalid values fall back to PriorityNormal.
func WithPriority(p event.Priority) SubscriptionOption {
	return func(c *subscriptionConfig) {
		if p.Valid() {
			c.priority = p
		}
	}
}

// WithOnce auto-unsubscribes after the first delivered event.
func WithOnce() SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.once = true
	}
}

// PublishOption configures a single publish call.
type PublishOption func(*publishConfig)

// publishConfig contains per-publish configuration.
type publishConfig struct {
	priority event.Priority
	source   string
}

// defaultPublishConfig returns the default publish configuration.
func defaultPublishConfig() publishConfig {
	return publishConfig{
		priority: event.PriorityNormal,
	}
}

// AtPriority publishes the event at the given priority. Invalid values
// fall back to PriorityNormal.
func AtPriority(p event.Priority) PublishOption {
	return func(c *publishConfig) {
		if p.Valid() {
			c.priority = p
		}
	}
}

// WithSource stamps the publishing module's name into the event metadata.
func WithSource(source string) PublishOption {
	return func(c *publishConfig) {
		c.source = source
	}
}
