package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// recursionMarker replaces containers nested deeper than MaxDepth.
const recursionMarker = "*RECURSION*"

// Stringify renders v for debugging as array( "k" => v,... ). Keys and
// string scalars are double-quoted verbatim, nested containers recurse with
// arrays keyed by index, and other scalars use their Text form, so booleans
// render as true or false and nil as null rather than as 1 and an empty
// string. A comma follows an entry only when the next entry's value is
// truthy. A scalar at the top level renders unquoted.
//
// The output is diagnostic only; it is not JSON and cannot be parsed back.
func Stringify(v Value) string {
	if !v.IsContainer() {
		return Text(v.scalar)
	}
	var b strings.Builder
	writeContainer(&b, v, 0)
	return b.String()
}

func writeContainer(b *strings.Builder, v Value, depth int) {
	if depth > MaxDepth {
		b.WriteString(recursionMarker)
		return
	}
	elems := v.elements()
	b.WriteString("array( ")
	for i, e := range elems {
		b.WriteString(`"` + e.Key + `" => `)
		switch {
		case e.Value.IsContainer():
			writeContainer(b, e.Value, depth+1)
		case isString(e.Value.scalar):
			b.WriteString(`"` + Text(e.Value.scalar) + `"`)
		default:
			b.WriteString(Text(e.Value.scalar))
		}
		if i+1 < len(elems) && Truthy(elems[i+1].Value) {
			b.WriteByte(',')
		}
	}
	b.WriteString(" )")
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// Truthy reports whether v counts as set: nil, false, numeric zero, "", "0"
// and empty containers are not.
func Truthy(v Value) bool {
	switch v.kind {
	case KindDocument:
		return len(v.doc) > 0
	case KindArray:
		return len(v.array) > 0
	}
	switch s := v.scalar.(type) {
	case nil:
		return false
	case bool:
		return s
	case string:
		return s != "" && s != "0"
	case int:
		return s != 0
	case int8:
		return s != 0
	case int16:
		return s != 0
	case int32:
		return s != 0
	case int64:
		return s != 0
	case uint:
		return s != 0
	case uint8:
		return s != 0
	case uint16:
		return s != 0
	case uint32:
		return s != 0
	case uint64:
		return s != 0
	case float32:
		return s != 0
	case float64:
		return s != 0
	case bson.Null, bson.Undefined:
		return false
	default:
		return true
	}
}

// Text returns the default textual form of a scalar. nil and BSON null are
// "null", booleans are "true" and "false".
func Text(v any) string {
	switch s := v.(type) {
	case nil, bson.Null:
		return "null"
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bson.ObjectID:
		return s.Hex()
	case bson.DateTime:
		return s.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return s.Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
