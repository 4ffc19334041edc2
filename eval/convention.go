package eval

import (
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tronglh241/liberyacs/errs"
)

// ErrConvention is returned when a reserved-key convention is invalid.
var ErrConvention = errs.New("invalid reserved-key convention")

// Convention names the reserved keys that identify object specifications
// and extra-library declarations within a document. The names are a
// convention, not fixed syntax; two presets cover the forms that appear in
// practice.
type Convention struct {
	Module    string `validate:"required"`
	Name      string `validate:"required"`
	Kwargs    string `validate:"required"`
	Extralibs string `validate:"required"`
}

// Plain is the unprefixed reserved-key convention.
var Plain = Convention{
	Module:    "module",
	Name:      "name",
	Kwargs:    "kwargs",
	Extralibs: "extralibs",
}

// Sentinel is the underscore-wrapped reserved-key convention, for documents
// whose ordinary keys may collide with the plain names.
var Sentinel = Convention{
	Module:    "_module_",
	Name:      "_name_",
	Kwargs:    "_kwargs_",
	Extralibs: "_extralibs_",
}

//nolint:gochecknoglobals
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks that every reserved key is non-empty and that the keys
// are pairwise distinct.
func (c Convention) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(c); err != nil {
		return ErrConvention.Wrap(err)
	}

	seen := make(map[string]string, 4)

	for field, key := range map[string]string{
		"module":    c.Module,
		"name":      c.Name,
		"kwargs":    c.Kwargs,
		"extralibs": c.Extralibs,
	} {
		if other, dup := seen[key]; dup {
			return ErrConvention.
				With(
					slog.String("key", key),
					slog.String("fields", other+", "+field),
				)
		}

		seen[key] = field
	}

	return nil
}
