package liberyacs

import (
	"github.com/tronglh241/liberyacs/eval"
	"github.com/tronglh241/liberyacs/interp"
	"github.com/tronglh241/liberyacs/log"
	"github.com/tronglh241/liberyacs/registry"
)

// Options holds the configuration of a load or evaluation.
type Options struct {
	mode       eval.Mode
	engineOpt  []eval.Option
	hasLogger  bool
	loadLogger log.Logger
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

func makeOptions(opts ...Option) Options {
	o := Options{
		mode: eval.ModeEvaluated,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

func (o Options) engineOpts() []eval.Option {
	return o.engineOpt
}

func (o Options) logger() log.Logger {
	if o.hasLogger {
		return o.loadLogger
	}

	return log.Discard()
}

// WithEvaluation enables or disables dynamic evaluation. Evaluation is
// enabled by default; disabled, the parsed tree is returned unchanged.
func WithEvaluation(enabled bool) Option {
	return func(o *Options) {
		if enabled {
			o.mode = eval.ModeEvaluated
		} else {
			o.mode = eval.ModeRaw
		}
	}
}

// WithConvention sets the reserved-key convention recognized in documents.
func WithConvention(conv eval.Convention) Option {
	return func(o *Options) {
		o.engineOpt = append(o.engineOpt, eval.WithConvention(conv))
	}
}

// WithRegistry sets the symbol registry consulted for library imports and
// object construction.
func WithRegistry(r *registry.Registry) Option {
	return func(o *Options) {
		o.engineOpt = append(o.engineOpt, eval.WithRegistry(r))
	}
}

// WithInterpreter sets the expression service implementation.
func WithInterpreter(i interp.Interpreter) Option {
	return func(o *Options) {
		o.engineOpt = append(o.engineOpt, eval.WithInterpreter(i))
	}
}

// WithLogger sets the logger used during loading and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(o *Options) {
		o.hasLogger = true
		o.loadLogger = logger
		o.engineOpt = append(o.engineOpt, eval.WithLogger(logger))
	}
}
