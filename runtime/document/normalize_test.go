package document

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNormalizeNilReturnsEmptyDocument(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *struct{ A int }
	var nilD bson.D
	for _, in := range []any{nil, nilMap, nilPtr, nilD} {
		out, err := Normalize(in)
		require.NoError(t, err)
		require.NotNil(t, out)
		require.Empty(t, out)
	}
}

func TestNormalizeNested(t *testing.T) {
	in := bson.D{
		{Key: "a", Value: 1},
		{Key: "b", Value: bson.D{{Key: "c", Value: "x"}}},
		{Key: "list", Value: bson.A{int32(1), bson.M{"k": true}}},
	}
	out, err := Normalize(in)
	require.NoError(t, err)

	expected := Document{
		{Key: "a", Value: Scalar(1)},
		{Key: "b", Value: Doc(Document{{Key: "c", Value: Scalar("x")}})},
		{Key: "list", Value: Array(
			Scalar(int32(1)),
			Doc(Document{{Key: "k", Value: Scalar(true)}}),
		)},
	}
	require.Equal(t, expected, out)
}

func TestNormalizeSortsMapKeys(t *testing.T) {
	out, err := Normalize(map[string]any{"z": 1, "a": 2, "m": map[string]int{"y": 1, "b": 2}})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "m", "z"}, out.Keys())
	nested, ok := out.Get("m")
	require.True(t, ok)
	require.Equal(t, []string{"b", "y"}, nested.Document().Keys())
}

func TestNormalizeTopLevelSliceIsKeyedByIndex(t *testing.T) {
	out, err := Normalize([]string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, Document{
		{Key: "0", Value: Scalar("x")},
		{Key: "1", Value: Scalar("y")},
	}, out)
}

func TestNormalizeScalarYieldsEmptyDocument(t *testing.T) {
	for _, in := range []any{"plain", 5, true, 1.5} {
		out, err := Normalize(in)
		require.NoError(t, err)
		require.NotNil(t, out)
		require.Empty(t, out)
	}

	v, err := NormalizeValue("plain")
	require.NoError(t, err)
	require.Equal(t, Scalar("plain"), v)
}

func TestNormalizeStructUsesBSONTags(t *testing.T) {
	type inner struct {
		Level int32 `bson:"level"`
	}
	type profile struct {
		Name    string `bson:"name"`
		Inner   inner  `bson:"inner"`
		Ignored string `bson:"-"`
	}
	out, err := Normalize(&profile{Name: "ada", Inner: inner{Level: 2}, Ignored: "x"})
	require.NoError(t, err)
	require.Equal(t, Document{
		{Key: "name", Value: Scalar("ada")},
		{Key: "inner", Value: Doc(Document{{Key: "level", Value: Scalar(int32(2))}})},
	}, out)
}

func TestNormalizeKeepsBSONScalars(t *testing.T) {
	id := bson.NewObjectID()
	when := bson.NewDateTimeFromTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	out, err := Normalize(bson.D{{Key: "_id", Value: id}, {Key: "at", Value: when}})
	require.NoError(t, err)
	got, _ := out.Get("_id")
	require.Equal(t, id, got.Scalar())
	got, _ = out.Get("at")
	require.Equal(t, when, got.Scalar())
}

func TestNormalizeCyclicInputFails(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	_, err := Normalize(m)
	require.ErrorIs(t, err, ErrTooDeep)
}

type chainNode struct {
	Name string     `bson:"name"`
	Next *chainNode `bson:"next,omitempty"`
	Skip *chainNode `bson:"-"`
}

func TestNormalizeCyclicStructFails(t *testing.T) {
	n := &chainNode{Name: "a"}
	n.Next = n
	_, err := Normalize(n)
	require.ErrorIs(t, err, ErrTooDeep)

	_, err = Normalize(map[string]any{"node": n})
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestNormalizeStructSkipsIgnoredCycle(t *testing.T) {
	n := &chainNode{Name: "a", Next: &chainNode{Name: "b"}}
	n.Skip = n
	out, err := Normalize(n)
	require.NoError(t, err)
	require.Equal(t, Document{
		{Key: "name", Value: Scalar("a")},
		{Key: "next", Value: Doc(Document{{Key: "name", Value: Scalar("b")}})},
	}, out)
}

func TestNormalizeDepthLimit(t *testing.T) {
	build := func(levels int) map[string]any {
		out := map[string]any{"leaf": 1}
		for i := 1; i < levels; i++ {
			out = map[string]any{"n": out}
		}
		return out
	}
	_, err := Normalize(build(MaxDepth))
	require.NoError(t, err)
	_, err = Normalize(build(MaxDepth + 1))
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestNormalizeCopiesDocument(t *testing.T) {
	in := Document{{Key: "a", Value: Scalar(1)}}
	out, err := Normalize(in)
	require.NoError(t, err)
	out.Set("a", Scalar(2))
	got, _ := in.Get("a")
	require.Equal(t, 1, got.Scalar())
}

func TestDocumentSetReplacesInPlace(t *testing.T) {
	var d Document
	d.Set("a", Scalar(1))
	d.Set("b", Scalar(2))
	d.Set("a", Scalar(3))
	require.Equal(t, []string{"a", "b"}, d.Keys())
	got, ok := d.Get("a")
	require.True(t, ok)
	require.Equal(t, 3, got.Scalar())
	_, ok = d.Get("missing")
	require.False(t, ok)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(ints map[string]int, list []string, strs map[string]string, flag bool) bool {
			in := map[string]any{
				"ints":   ints,
				"list":   list,
				"nested": map[string]any{"strs": strs, "flag": flag, "empty": nil},
				"seq":    []any{ints, list, flag},
			}
			once, err := Normalize(in)
			if err != nil {
				return false
			}
			twice, err := Normalize(once)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(once, twice)
		},
		gen.MapOf(gen.Identifier(), gen.Int()),
		gen.SliceOf(gen.AlphaString()),
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
