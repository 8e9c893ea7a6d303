// Package index builds index names from key specifications.
//
// Name keeps the historical behavior of the driver helper, whose single-field
// branch adds the "_1" suffix numerically instead of appending it, so
// Name("a.b") is "0". CanonicalName is the corrected variant and is what new
// code should use.
package index

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"goa.design/mongoutil/runtime/document"
)

// suffix is appended to every field name.
const suffix = "_1"

// Name returns the index name for keys as the driver helper always computed
// it. keys is a dotted field path or an ordered mapping of field to direction
// (document.Document, bson.D), or an unordered one (bson.M, map[string]any,
// map[string]int) walked in sorted key order. Directions are ignored. Any
// other keys yield "".
func Name(keys any) string {
	if path, ok := keys.(string); ok {
		return looseNumericSum(fieldName(path), suffix)
	}
	return mappingName(keys)
}

// CanonicalName is Name with the single-field branch appending the suffix:
// CanonicalName("a.b") is "a_b_1".
func CanonicalName(keys any) string {
	if path, ok := keys.(string); ok {
		return fieldName(path) + suffix
	}
	return mappingName(keys)
}

func mappingName(keys any) string {
	fields := fieldsOf(keys)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fieldName(f) + suffix
	}
	return strings.Join(parts, "_")
}

func fieldsOf(keys any) []string {
	switch k := keys.(type) {
	case document.Document:
		return k.Keys()
	case bson.D:
		fields := make([]string, len(k))
		for i, e := range k {
			fields[i] = e.Key
		}
		return fields
	case bson.M:
		return sortedKeys(k)
	case map[string]any:
		return sortedKeys(k)
	case map[string]int:
		return sortedKeys(k)
	default:
		return nil
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fieldName(path string) string {
	return strings.ReplaceAll(path, ".", "_")
}

// numericPrefix matches the leading number a loosely typed string-to-number
// conversion would read.
var numericPrefix = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// number is an operand of looseNumericSum. Integer prefixes that fit in an
// int64 stay integers; everything else is a float.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// looseNumericSum adds a and b as numbers, reading each operand's leading
// numeric prefix and treating strings without one as zero. Integer sums that
// overflow int64 become floats.
func looseNumericSum(a, b string) string {
	x, y := leadingNumber(a), leadingNumber(b)
	if !x.isFloat && !y.isFloat {
		sum := x.i + y.i
		if (y.i > 0 && sum < x.i) || (y.i < 0 && sum > x.i) {
			return formatFloat(float64(x.i) + float64(y.i))
		}
		return strconv.FormatInt(sum, 10)
	}
	return formatFloat(x.float() + y.float())
}

func leadingNumber(s string) number {
	m := numericPrefix.FindString(s)
	if m == "" {
		return number{}
	}
	m = strings.TrimLeft(m, " \t\n\r\v\f")
	if !strings.ContainsAny(m, ".eE") {
		i, err := strconv.ParseInt(m, 10, 64)
		if err == nil {
			return number{i: i}
		}
	}
	// ParseFloat reports ErrRange with ±Inf or 0, which is the value wanted.
	f, _ := strconv.ParseFloat(m, 64)
	return number{f: f, isFloat: true}
}

// formatFloat renders f with 14 significant digits, writing exponents as
// "1.0E+20" and infinities as "INF".
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'G', 14, 64)
	mant, exp, ok := strings.Cut(s, "E")
	if !ok {
		return s
	}
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "E" + sign + digits
}
