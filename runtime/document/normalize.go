package document

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxDepth is the deepest container nesting Normalize accepts. It matches the
// nesting limit the server enforces on stored documents and turns cyclic input
// into an error rather than a stack overflow.
const MaxDepth = 100

// ErrTooDeep is returned when the input nests deeper than MaxDepth, which
// includes every self-referential input.
var ErrTooDeep = errors.New("value nests too deeply")

var bsonPkgPath = reflect.TypeOf(bson.ObjectID{}).PkgPath()

// Normalize converts v into a Document that can be saved to the database.
// Containers are walked recursively and scalars are copied as-is.
//
// A nil input or a top-level scalar yields an empty Document. A top-level
// sequence yields a Document keyed by decimal index. Go maps are walked in sorted key order;
// Document, bson.D and bson.Raw keep their order. Structs are encoded with
// the BSON codec first so their bson tags apply.
func Normalize(v any) (Document, error) {
	if isNil(v) {
		return Document{}, nil
	}
	val, err := normalize(v, 0)
	if err != nil {
		return nil, err
	}
	switch val.kind {
	case KindDocument:
		return val.doc, nil
	case KindArray:
		return Document(val.elements()), nil
	default:
		return Document{}, nil
	}
}

// NormalizeValue converts v into a Value. Unlike Normalize it accepts scalars.
func NormalizeValue(v any) (Value, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, ErrTooDeep
	}
	switch t := v.(type) {
	case nil:
		return Scalar(nil), nil
	case Value:
		return normalizeVariant(t, depth)
	case Document:
		return normalizeElements(t, depth)
	case *Document:
		if t == nil {
			return Scalar(nil), nil
		}
		return normalizeElements(*t, depth)
	case bson.D:
		out := make(Document, 0, len(t))
		for _, e := range t {
			val, err := normalize(e.Value, depth+1)
			if err != nil {
				return Value{}, err
			}
			out.Set(e.Key, val)
		}
		return Doc(out), nil
	case bson.M:
		return normalizeStringMap(t, depth)
	case map[string]any:
		return normalizeStringMap(t, depth)
	case bson.A:
		return normalizeSlice(t, depth)
	case []any:
		return normalizeSlice(t, depth)
	case bson.Raw:
		d, err := FromBSON(t)
		if err != nil {
			return Value{}, err
		}
		return Doc(d), nil
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64,
		[]byte, time.Time:
		return Scalar(t), nil
	}
	return normalizeReflect(reflect.ValueOf(v), depth)
}

func normalizeVariant(v Value, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, ErrTooDeep
	}
	switch v.kind {
	case KindDocument:
		return normalizeElements(v.doc, depth)
	case KindArray:
		out := make([]Value, 0, len(v.array))
		for _, item := range v.array {
			val, err := normalizeVariant(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			out = append(out, val)
		}
		return Array(out...), nil
	default:
		return normalize(v.scalar, depth)
	}
}

func normalizeElements(d Document, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, ErrTooDeep
	}
	out := make(Document, 0, len(d))
	for _, e := range d {
		val, err := normalizeVariant(e.Value, depth+1)
		if err != nil {
			return Value{}, err
		}
		out.Set(e.Key, val)
	}
	return Doc(out), nil
}

func normalizeStringMap[M ~map[string]any](m M, depth int) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Document, 0, len(m))
	for _, k := range keys {
		val, err := normalize(m[k], depth+1)
		if err != nil {
			return Value{}, err
		}
		out = append(out, Element{Key: k, Value: val})
	}
	return Doc(out), nil
}

func normalizeSlice[S ~[]any](s S, depth int) (Value, error) {
	out := make([]Value, 0, len(s))
	for _, item := range s {
		val, err := normalize(item, depth+1)
		if err != nil {
			return Value{}, err
		}
		out = append(out, val)
	}
	return Array(out...), nil
}

func normalizeReflect(rv reflect.Value, depth int) (Value, error) {
	if !rv.IsValid() {
		return Scalar(nil), nil
	}
	if rv.Type().PkgPath() == bsonPkgPath {
		// ObjectID, Decimal128, Binary, DateTime and friends are BSON scalars.
		return Scalar(rv.Interface()), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Scalar(nil), nil
		}
		return normalize(rv.Elem().Interface(), depth+1)
	case reflect.Map:
		if rv.IsNil() {
			return Doc(Document{}), nil
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := mapKey(iter.Key())
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		out := make(Document, 0, len(keys))
		for _, k := range keys {
			val, err := normalize(byKey[k].Interface(), depth+1)
			if err != nil {
				return Value{}, err
			}
			out = append(out, Element{Key: k, Value: val})
		}
		return Doc(out), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Array(), nil
		}
		out := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			val, err := normalize(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return Value{}, err
			}
			out = append(out, val)
		}
		return Array(out...), nil
	case reflect.Struct:
		if err := checkDepth(rv, depth); err != nil {
			return Value{}, err
		}
		raw, err := bson.Marshal(rv.Interface())
		if err != nil {
			return Value{}, fmt.Errorf("encode %s: %w", rv.Type(), err)
		}
		d, err := FromBSON(raw)
		if err != nil {
			return Value{}, err
		}
		return Doc(d), nil
	default:
		return Scalar(rv.Interface()), nil
	}
}

// checkDepth walks the values the BSON codec would encode for rv and fails
// once they nest deeper than MaxDepth. Unexported fields and fields tagged
// "-" are skipped.
func checkDepth(rv reflect.Value, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	if !rv.IsValid() || rv.Type().PkgPath() == bsonPkgPath {
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return checkDepth(rv.Elem(), depth+1)
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := checkDepth(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkDepth(rv.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("bson") == "-" {
				continue
			}
			if err := checkDepth(rv.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func mapKey(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10)
	default:
		return fmt.Sprint(k.Interface())
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
