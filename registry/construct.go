package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/tronglh241/liberyacs/errs"
	"github.com/tronglh241/liberyacs/node"
)

var (
	kwargsType = reflect.TypeOf(map[string]any{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Construct invokes a resolved callable with named arguments. An empty
// kwargs map invokes the callable with no argument values, so its own
// defaults apply.
//
// Supported callable shapes:
//
//   - func() (T[, error])
//   - func(map[string]any) (T[, error])
//   - func(Args) (T[, error]) where Args is a struct whose exported fields
//     are filled from kwargs by case-insensitive name
func Construct(callable any, kwargs map[string]any) (out any, err error) {
	fv := reflect.ValueOf(callable)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, errs.ErrConstruction.
			With(slog.String("reason", "symbol is not callable"))
	}

	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, errs.ErrConstruction.
			With(slog.String(
				"reason", "variadic constructors are not supported",
			))
	}

	in, err := buildArgs(ft, kwargs)
	if err != nil {
		return nil, err
	}

	// Constructors may panic; surface that as a construction failure.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errs.ErrConstruction.
				With(slog.String("reason", fmt.Sprint(r)))
		}
	}()

	return unpackResults(fv.Call(in))
}

func buildArgs(
	ft reflect.Type,
	kwargs map[string]any,
) ([]reflect.Value, error) {
	switch ft.NumIn() {
	case 0:
		if len(kwargs) > 0 {
			return nil, errs.ErrConstruction.
				With(slog.String(
					"reason", "constructor accepts no arguments",
				))
		}

		return nil, nil

	case 1:
		pt := ft.In(0)

		switch {
		case pt == kwargsType:
			if kwargs == nil {
				kwargs = map[string]any{}
			}

			return []reflect.Value{reflect.ValueOf(kwargs)}, nil

		case pt.Kind() == reflect.Struct:
			sv, err := fillStruct(pt, kwargs)
			if err != nil {
				return nil, err
			}

			return []reflect.Value{sv}, nil

		case pt.Kind() == reflect.Pointer &&
			pt.Elem().Kind() == reflect.Struct:
			sv, err := fillStruct(pt.Elem(), kwargs)
			if err != nil {
				return nil, err
			}

			return []reflect.Value{sv.Addr()}, nil
		}
	}

	return nil, errs.ErrConstruction.
		With(slog.String(
			"reason", "unsupported constructor signature",
		))
}

// fillStruct builds a value of struct type t with exported fields set from
// kwargs. Argument names match field names case-insensitively. Unknown
// argument names fail.
func fillStruct(
	t reflect.Type,
	kwargs map[string]any,
) (reflect.Value, error) {
	sv := reflect.New(t).Elem()

	for name, value := range kwargs {
		field, ok := findField(t, name)
		if !ok {
			return reflect.Value{}, errs.ErrConstruction.
				With(slog.String("argument", name))
		}

		if err := setField(sv.FieldByIndex(field.Index), value); err != nil {
			var ee *errs.Error
			if e, ok := err.(*errs.Error); ok {
				ee = e
			} else {
				ee = errs.ErrConstruction.Wrap(err)
			}

			return reflect.Value{}, ee.
				With(slog.String("argument", name))
		}
	}

	return sv, nil
}

func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	if field, ok := t.FieldByName(name); ok && field.IsExported() {
		return field, true
	}

	field, ok := t.FieldByNameFunc(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
	if !ok || !field.IsExported() {
		return reflect.StructField{}, false
	}

	return field, true
}

func setField(field reflect.Value, value any) error {
	if !field.CanSet() {
		return errs.ErrConstruction.
			With(slog.String("reason", "field is not settable"))
	}

	switch v := value.(type) {
	case nil:
		field.SetZero()

		return nil

	case *node.Node:
		return setNodeField(field, v)

	case *node.Sequence:
		return setSliceField(field, v.Items)

	case []any:
		return setSliceField(field, v)
	}

	rv := reflect.ValueOf(value)

	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)

		return nil
	}

	if convertible(rv.Type(), field.Type()) {
		field.Set(rv.Convert(field.Type()))

		return nil
	}

	return errs.ErrConstruction.
		With(
			slog.String("reason", "argument type mismatch"),
			slog.String("have", rv.Type().String()),
			slog.String("want", field.Type().String()),
		)
}

// setNodeField assigns a mapping argument to a map or (pointer to) struct
// field, filling nested struct fields recursively.
func setNodeField(field reflect.Value, n *node.Node) error {
	switch field.Kind() {
	case reflect.Map:
		if field.Type() != kwargsType {
			break
		}

		field.Set(reflect.ValueOf(n.AsMap()))

		return nil

	case reflect.Struct:
		nested, err := fillStruct(field.Type(), nodeKwargs(n))
		if err != nil {
			return err
		}

		field.Set(nested)

		return nil

	case reflect.Pointer:
		if field.Type().Elem().Kind() != reflect.Struct {
			break
		}

		nested, err := fillStruct(field.Type().Elem(), nodeKwargs(n))
		if err != nil {
			return err
		}

		field.Set(nested.Addr())

		return nil

	case reflect.Interface:
		if field.Type().NumMethod() != 0 {
			break
		}

		field.Set(reflect.ValueOf(n))

		return nil
	}

	return errs.ErrConstruction.
		With(
			slog.String("reason", "argument type mismatch"),
			slog.String("have", "mapping"),
			slog.String("want", field.Type().String()),
		)
}

func setSliceField(field reflect.Value, items []any) error {
	if field.Kind() == reflect.Interface && field.Type().NumMethod() == 0 {
		field.Set(reflect.ValueOf(items))

		return nil
	}

	if field.Kind() != reflect.Slice {
		return errs.ErrConstruction.
			With(
				slog.String("reason", "argument type mismatch"),
				slog.String("have", "sequence"),
				slog.String("want", field.Type().String()),
			)
	}

	out := reflect.MakeSlice(field.Type(), len(items), len(items))

	for i, item := range items {
		if err := setField(out.Index(i), item); err != nil {
			return err
		}
	}

	field.Set(out)

	return nil
}

// nodeKwargs converts a node's top-level entries to a kwargs map without
// flattening nested nodes, so nested struct fill sees them.
func nodeKwargs(n *node.Node) map[string]any {
	out := make(map[string]any, n.Len())

	for key, value := range n.All() {
		out[key] = value
	}

	return out
}

// convertible restricts reflect conversions to same-kind families. It
// rejects surprising conversions such as int to string.
func convertible(have, want reflect.Type) bool {
	if !have.ConvertibleTo(want) {
		return false
	}

	return kindFamily(have.Kind()) == kindFamily(want.Kind()) &&
		kindFamily(have.Kind()) != 0
}

func kindFamily(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1

	case reflect.String:
		return 2

	default:
		return 0
	}
}

func unpackResults(results []reflect.Value) (any, error) {
	switch len(results) {
	case 1:
		return results[0].Interface(), nil

	case 2:
		if results[1].Type().Implements(errorType) {
			if !results[1].IsNil() {
				err, _ := results[1].Interface().(error)

				return nil, errs.ErrConstruction.Wrap(err)
			}

			return results[0].Interface(), nil
		}
	}

	return nil, errs.ErrConstruction.
		With(slog.String(
			"reason", "unsupported constructor results",
		))
}
