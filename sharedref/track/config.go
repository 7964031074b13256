package track

import (
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/LerianStudio/lib-sharedref/sharedref"
	"github.com/LerianStudio/lib-sharedref/sharedref/log"
)

// EnvTrackEnabled is the environment variable that turns on registry
// installation through InstallFromEnv. Truthy values: 1, true, on, enabled.
const EnvTrackEnabled = "SHAREDREF_TRACK"

// Config controls registry behavior.
type Config struct {
	// CapturePayloadType stores payload type names on live entries and labels
	// construction metrics with them. Disable it to keep type names out of
	// telemetry.
	CapturePayloadType bool
	// MeterProvider overrides the default global meter provider when set.
	MeterProvider metric.MeterProvider
	// Logger receives leak reports and instrument creation failures. Nil
	// means no logging.
	Logger log.Logger
}

// DefaultConfig returns the baseline registry configuration.
func DefaultConfig() Config {
	return Config{
		CapturePayloadType: true,
		MeterProvider:      nil,
		Logger:             nil,
	}
}

func (cfg *Config) normalize() {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
}

// Install creates a registry from cfg and installs it as the process-wide
// tracker. Groups constructed before the call are not tracked.
func Install(cfg Config) *Registry {
	registry := NewRegistry(cfg)
	sharedref.SetTracker(registry)

	return registry
}

// InstallFromEnv installs a registry only when EnvTrackEnabled holds a
// truthy value, so test and CI runs can turn on accounting with no code
// change. The boolean reports whether installation happened.
func InstallFromEnv(cfg Config) (*Registry, bool) {
	if !enabledFromEnv() {
		return nil, false
	}

	return Install(cfg), true
}

func enabledFromEnv() bool {
	value := strings.TrimSpace(os.Getenv(EnvTrackEnabled))

	switch {
	case strings.EqualFold(value, "1"),
		strings.EqualFold(value, "true"),
		strings.EqualFold(value, "on"),
		strings.EqualFold(value, "enabled"):
		return true
	default:
		return false
	}
}
