package eval

import (
	"github.com/tronglh241/liberyacs/interp"
	"github.com/tronglh241/liberyacs/log"
	"github.com/tronglh241/liberyacs/registry"
)

// Option applies a configuration option to an Engine.
type Option func(*Engine)

// WithConvention sets the reserved-key convention.
func WithConvention(conv Convention) Option {
	return func(e *Engine) {
		e.conv = conv
	}
}

// WithInterpreter sets the expression service implementation.
func WithInterpreter(i interp.Interpreter) Option {
	return func(e *Engine) {
		if i != nil {
			e.interp = i
		}
	}
}

// WithRegistry sets the symbol registry used for library imports and
// object construction.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.reg = r
		}
	}
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}
