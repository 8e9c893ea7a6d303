// Package query defines the operator tokens embedded in query documents to
// request comparison semantics instead of equality.
package query

import (
	"fmt"

	"goa.design/mongoutil/runtime/document"
)

// Operator is a reserved query operator token. The string values are part of
// the public contract and never change.
type Operator string

const (
	// LT matches values less than the operand.
	LT Operator = "$lt"
	// LTE matches values less than or equal to the operand.
	LTE Operator = "$lte"
	// GT matches values greater than the operand.
	GT Operator = "$gt"
	// GTE matches values greater than or equal to the operand.
	GTE Operator = "$gte"
	// IN matches any of the values in the operand array.
	IN Operator = "$in"
	// NE matches values not equal to the operand.
	NE Operator = "$ne"
)

// Operators lists every operator token.
func Operators() []Operator {
	return []Operator{LT, LTE, GT, GTE, IN, NE}
}

// Condition is a set of operator clauses applied to a single field.
type Condition struct {
	field   string
	clauses document.Document
	err     error
}

// Field starts a condition on field.
func Field(field string) *Condition {
	return &Condition{field: field, clauses: document.Document{}}
}

// Op adds an operator clause. Adding the same operator twice keeps the last
// operand. Operands are normalized so maps and slices become nested values;
// the first operand that cannot be normalized is reported by Document.
func (c *Condition) Op(op Operator, operand any) *Condition {
	if c.err != nil {
		return c
	}
	v, err := document.NormalizeValue(operand)
	if err != nil {
		c.err = fmt.Errorf("%s operand of %q: %w", op, c.field, err)
		return c
	}
	c.clauses.Set(string(op), v)
	return c
}

// Document returns { field: { op: operand, ... } }.
func (c *Condition) Document() (document.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	return document.Document{{Key: c.field, Value: document.Doc(c.clauses)}}, nil
}

// Between is shorthand for { field: { $gte: lo, $lt: hi } }.
func Between(field string, lo, hi any) (document.Document, error) {
	return Field(field).Op(GTE, lo).Op(LT, hi).Document()
}

// In is shorthand for { field: { $in: [values...] } }.
func In(field string, values ...any) (document.Document, error) {
	return Field(field).Op(IN, values).Document()
}
