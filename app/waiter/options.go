package waiter

import (
	"os"
)

type Option func(*waiterCfg)

// WithSignals replaces the signals that cancel the waiter.
// With no arguments the waiter ignores signals.
func WithSignals(signals ...os.Signal) Option {
	return func(cfg *waiterCfg) {
		cfg.signals = signals
	}
}
