package shape_test

import (
	"errors"
	"math"
	"testing"

	"github.com/driano7/XocoCafe-sub000/internal/service/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, shape.KindArray, shape.Classify([]any{1}))
	assert.Equal(t, shape.KindObject, shape.Classify(map[string]any{}))
	assert.Equal(t, shape.KindEncodedString, shape.Classify(`{"a":1}`))
	assert.Equal(t, shape.KindEncodedString, shape.Classify([]byte(`[]`)))
	assert.Equal(t, shape.KindAbsent, shape.Classify("   "))
	assert.Equal(t, shape.KindAbsent, shape.Classify(nil))
	assert.Equal(t, shape.KindAbsent, shape.Classify(42.0))
}

func TestObjectStringAndNativeAreEquivalent(t *testing.T) {
	native := map[string]any{
		"payment": map[string]any{"method": "cash", "reference": "R-1"},
	}
	encoded := `{"payment":{"method":"cash","reference":"R-1"}}`

	assert.Equal(t, native, shape.Object(encoded))
	assert.Equal(t, native, shape.Object(native))
}

func TestObjectShallowCopies(t *testing.T) {
	src := map[string]any{"a": 1.0}
	out := shape.Object(src)
	out["b"] = 2.0
	assert.NotContains(t, src, "b")
}

func TestObjectAbsorbsMalformedInput(t *testing.T) {
	assert.Nil(t, shape.Object(`{"payment":`))
	assert.Nil(t, shape.Object(`[1,2]`))
	assert.Nil(t, shape.Object(12.0))
	assert.Nil(t, shape.Object(nil))
}

func TestArrayShapes(t *testing.T) {
	items := []any{map[string]any{"name": "Latte"}}

	cases := map[string]any{
		"direct":          items,
		"wrapper":         map[string]any{"items": items},
		"encoded direct":  `[{"name":"Latte"}]`,
		"encoded wrapper": `{"items":[{"name":"Latte"}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, items, shape.Array(in, "items"))
		})
	}

	assert.Nil(t, shape.Array(`not json`, "items"))
	assert.Nil(t, shape.Array(map[string]any{"items": "nope"}, "items"))
	assert.Nil(t, shape.Array(`"[1]"`, "items"), "doubly encoded strings are not unwrapped")
	assert.Equal(t, items, shape.Array(map[string]any{"lineItems": items}, "items", "lineItems"))
}

func TestLookupAndPick(t *testing.T) {
	obj := map[string]any{
		"prepAssignment": map[string]any{"staffId": "st-1"},
		"size":           "grande",
	}

	assert.Equal(t, "st-1", shape.Lookup(obj, "prepAssignment.staffId"))
	assert.Nil(t, shape.Lookup(obj, "size.label"))
	assert.Nil(t, shape.Lookup(obj, "missing.path"))
	assert.Equal(t, "grande", shape.Pick(obj, "sizeLabel", "size"))
}

func TestFirstNonEmpty(t *testing.T) {
	blank := "   "
	set := " card "

	got := shape.FirstNonEmpty(nil, &blank, (*string)(nil), "", &set, "cash")
	require.NotNil(t, got)
	assert.Equal(t, "card", *got)

	assert.Nil(t, shape.FirstNonEmpty(nil, "", map[string]any{}))
	assert.Equal(t, "7", *shape.FirstNonEmpty(7.0))
}

func TestFirstOfStopsAtFirstHit(t *testing.T) {
	calls := 0
	miss := func() (string, bool, error) { calls++; return "", false, nil }
	hit := func() (string, bool, error) { calls++; return "b", true, nil }
	never := func() (string, bool, error) { t.Fatal("must not be evaluated"); return "", false, nil }

	v, ok, err := shape.FirstOf(miss, hit, never)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, calls)
}

func TestFirstOfPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, ok, err := shape.FirstOf(
		func() (int, bool, error) { return 0, false, boom },
		func() (int, bool, error) { return 1, true, nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	n, ok := shape.Number(" 2.5 ")
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	_, ok = shape.Number(math.NaN())
	assert.False(t, ok)
	_, ok = shape.Number("two")
	assert.False(t, ok)
	_, ok = shape.Number(true)
	assert.False(t, ok)
}
