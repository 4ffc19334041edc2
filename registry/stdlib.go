package registry

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tronglh241/liberyacs/errs"
)

// Std returns a new registry preloaded with the standard libraries:
// "math", "strings", and "time". Callers may register additional
// libraries on top.
func Std() *Registry {
	r := New()

	r.Register("math", mathLib())
	r.Register("strings", stringsLib())
	r.Register("time", timeLib())

	return r
}

func mathLib() Library {
	return Library{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt":  math.Sqrt,
		"pow":   math.Pow,
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"mod":   math.Mod,
		"hypot": math.Hypot,
		"log":   math.Log,
		"exp":   math.Exp,
	}
}

func stringsLib() Library {
	return Library{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"split":     strings.Split,
		"fields":    strings.Fields,
		"contains":  strings.Contains,
		"replace":   strings.ReplaceAll,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      joinAny,
	}
}

// joinAny joins arbitrary items so expressions can pass mixed sequences.
func joinAny(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}

	return strings.Join(parts, sep)
}

// DateArgs are the named arguments of the time library's date constructor.
// Zero month and day default to January 1.
type DateArgs struct {
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
	Second   int
	Location string
}

func timeLib() Library {
	return Library{
		"now":     time.Now,
		"date":    makeDate,
		"parse":   time.Parse,
		"rfc3339": time.RFC3339,
		"minYear": 1,
	}
}

func makeDate(args DateArgs) (time.Time, error) {
	loc := time.UTC

	if args.Location != "" {
		var err error

		loc, err = time.LoadLocation(args.Location)
		if err != nil {
			return time.Time{}, errs.ErrConstruction.Wrap(err).
				With(slog.String("location", args.Location))
		}
	}

	month := args.Month
	if month == 0 {
		month = 1
	}

	day := args.Day
	if day == 0 {
		day = 1
	}

	return time.Date(
		args.Year, time.Month(month), day,
		args.Hour, args.Minute, args.Second, 0, loc,
	), nil
}
