package document

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FromBSON decodes a raw BSON document, preserving field order. An empty raw
// value yields an empty Document.
func FromBSON(raw bson.Raw) (Document, error) {
	if len(raw) == 0 {
		return Document{}, nil
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return Normalize(d)
}

// BSON converts the document into a bson.D accepted anywhere the driver takes
// a filter, command or replacement document.
func (d Document) BSON() bson.D {
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		out = append(out, bson.E{Key: e.Key, Value: e.Value.Interface()})
	}
	return out
}

// Interface returns the driver-native form of v: the scalar itself, a bson.A
// or a bson.D.
func (v Value) Interface() any {
	switch v.kind {
	case KindDocument:
		return v.doc.BSON()
	case KindArray:
		out := make(bson.A, 0, len(v.array))
		for _, item := range v.array {
			out = append(out, item.Interface())
		}
		return out
	default:
		return v.scalar
	}
}

// MarshalBSON implements bson.Marshaler.
func (d Document) MarshalBSON() ([]byte, error) {
	return bson.Marshal(d.BSON())
}

// UnmarshalBSON implements bson.Unmarshaler.
func (d *Document) UnmarshalBSON(data []byte) error {
	out, err := FromBSON(data)
	if err != nil {
		return err
	}
	*d = out
	return nil
}
