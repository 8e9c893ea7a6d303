// Package document models the structured values exchanged with MongoDB: an
// ordered mapping of string keys to values, where a value is a scalar, an
// ordered sequence of values or a nested document.
//
// Normalize turns arbitrary Go values (maps, slices, structs, BSON types)
// into a Document that can be saved to the database, and Stringify renders a
// value in the diagnostic array( "k" => v ) form used in driver logs.
package document

import (
	"strconv"
)

// Kind identifies which branch of a Value is populated.
type Kind uint8

const (
	// KindScalar is any non-container value, including nil.
	KindScalar Kind = iota
	// KindArray is an ordered sequence of values.
	KindArray
	// KindDocument is an ordered, string-keyed mapping.
	KindDocument
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindDocument:
		return "document"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

type (
	// Value is a tagged variant holding exactly one of a scalar, an array or a
	// document. The zero Value is the nil scalar.
	Value struct {
		kind   Kind
		scalar any
		array  []Value
		doc    Document
	}

	// Element is a single key/value entry of a Document.
	Element struct {
		Key   string
		Value Value
	}

	// Document is an ordered mapping from string keys to values. Keys are
	// unique when the document is built with Set or Normalize.
	Document []Element
)

// Scalar wraps a non-container value. Callers that may hold containers should
// go through Normalize instead.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Array builds a sequence value.
func Array(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindArray, array: values}
}

// Doc wraps a document.
func Doc(d Document) Value {
	if d == nil {
		d = Document{}
	}
	return Value{kind: KindDocument, doc: d}
}

// Kind returns the populated branch.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar payload, or nil for containers.
func (v Value) Scalar() any { return v.scalar }

// Array returns the sequence payload, or nil when v is not an array.
func (v Value) Array() []Value { return v.array }

// Document returns the document payload, or nil when v is not a document.
func (v Value) Document() Document { return v.doc }

// IsContainer reports whether v is an array or a document.
func (v Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindDocument
}

// Len returns the number of elements.
func (d Document) Len() int { return len(d) }

// Get returns the value stored under key.
func (d Document) Get(key string) (Value, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the keys in document order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// Set stores v under key, replacing an existing entry in place or appending a
// new one.
func (d *Document) Set(key string, v Value) {
	for i := range *d {
		if (*d)[i].Key == key {
			(*d)[i].Value = v
			return
		}
	}
	*d = append(*d, Element{Key: key, Value: v})
}

// String renders the document with Stringify.
func (d Document) String() string {
	return Stringify(Doc(d))
}

// elements returns the entries of a container value, keying arrays by their
// decimal index.
func (v Value) elements() []Element {
	switch v.kind {
	case KindDocument:
		return v.doc
	case KindArray:
		out := make([]Element, len(v.array))
		for i, item := range v.array {
			out[i] = Element{Key: strconv.Itoa(i), Value: item}
		}
		return out
	default:
		return nil
	}
}
