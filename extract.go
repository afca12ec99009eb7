package wex

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Path extracts T from the matched route's path parameters. For a scalar
// T, the matched route must expose exactly one dynamic segment,
// and its value is parsed directly into T. For a struct T, each dynamic
// segment name is bound to the field carrying the matching `path:"name"`
// tag, falling back to the field's own name when untagged. A field is
// required unless it is a pointer; a required field with no matching
// segment yields a 400 error from [NewBadRequest].
func Path[T any](req *Request) (T, error) {
	var zero T
	rt := reflect.TypeFor[T]()

	if rt.Kind() != reflect.Struct {
		params := req.Params()
		if len(params) != 1 {
			return zero, NewBadRequest("route must expose exactly one path parameter for a scalar extractor", nil)
		}
		var only string
		for _, v := range params {
			only = v
		}
		out, err := parseScalar(rt, only)
		if err != nil {
			return zero, NewBadRequest("path parameter has the wrong type", err)
		}
		return out.Interface().(T), nil
	}

	out := reflect.New(rt).Elem()
	if err := bindTagged(out, "path", func(name string) (string, bool) {
		v, ok := req.Params()[name]
		return v, ok
	}); err != nil {
		return zero, err
	}

	return out.Interface().(T), nil
}

// Query extracts T from the request's raw query string. Struct fields
// bind via `query:"name"` tags (or their own name when
// untagged); unknown keys in the query string are ignored. A field is
// required unless it is a pointer; a required field with no matching key
// yields a 400 error from [NewBadRequest]. A scalar T requires the query string to carry
// exactly one key.
func Query[T any](req *Request) (T, error) {
	var zero T
	rt := reflect.TypeFor[T]()

	if rt.Kind() != reflect.Struct {
		if len(req.query) != 1 {
			return zero, NewBadRequest("query string must expose exactly one key for a scalar extractor", nil)
		}
		var only string
		for k := range req.query {
			only = k
		}
		out, err := parseScalar(rt, req.Query(only))
		if err != nil {
			return zero, NewBadRequest("query parameter has the wrong type", err)
		}
		return out.Interface().(T), nil
	}

	out := reflect.New(rt).Elem()
	if err := bindTagged(out, "query", func(name string) (string, bool) {
		vals := req.QueryValues(name)
		if len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}); err != nil {
		return zero, err
	}

	return out.Interface().(T), nil
}

// JSONBody decodes the request body as JSON into T, taking ownership of the
// body via [Request.TakeBody]. An empty body, malformed bytes, or a schema
// mismatch all surface as a 400 error from [NewBadRequest].
func JSONBody[T any](req *Request) (T, error) {
	var zero T

	body, err := req.TakeBody()
	if err != nil {
		return zero, NewBadRequest("request body already consumed", err)
	}
	if len(body) == 0 {
		return zero, NewJSONParseError(errors.New("request body is empty"))
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, NewJSONParseError(err)
	}

	return out, nil
}

// bindTagged walks dst's fields, resolving each one's bound name — the
// value of the tagName struct tag, or the field's own name when untagged or
// tagged "-" is skipped — through lookup, and assigns whatever it finds. A
// pointer-typed field is optional and left nil when its name has no match;
// every other field is required, and a missing match is a 400 error from
// [NewBadRequest].
func bindTagged(dst reflect.Value, tagName string, lookup func(name string) (string, bool)) error {
	rt := dst.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup(tagName); ok {
			tag = strings.Split(tag, ",")[0]
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		fv := dst.Field(i)

		val, ok := lookup(name)
		if !ok || val == "" {
			if fv.Kind() == reflect.Pointer {
				continue
			}
			return NewBadRequest("missing required "+tagName+" parameter "+name, nil)
		}

		parsed, err := parseScalar(fv.Type(), val)
		if err != nil {
			return NewBadRequest("field "+field.Name+" has the wrong type", err)
		}
		fv.Set(parsed)
	}

	return nil
}

// parseScalar parses s into a value of type t, supporting string, the
// built-in int/uint/float families, bool, and pointers to any of those
// (for optional fields, left nil when s is empty).
func parseScalar(t reflect.Type, s string) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		if s == "" {
			return reflect.Zero(t), nil
		}
		inner, err := parseScalar(t.Elem(), s)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(t), nil
	default:
		return reflect.Value{}, errors.Newf("unsupported scalar type %s", t)
	}
}
