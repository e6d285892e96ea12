package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With 10 buckets "y", "ab" and "<=" all hash to bucket 1, and "x" and
// "foo" both land in bucket 0.

func TestInsertDuplicateInSameTable(t *testing.T) {
	tbl := New(10, nil, 1)

	pos, ok := tbl.Insert("x", "int")
	require.True(t, ok)
	assert.Equal(t, Position{Bucket: 0, Index: 0}, pos)

	dupPos, ok := tbl.Insert("x", "float")
	assert.False(t, ok, "second insert of the same name must be rejected")
	assert.Equal(t, pos, dupPos)

	sym, _, found := tbl.Lookup("x")
	require.True(t, found)
	assert.Equal(t, Symbol{Name: "x", Type: "int"}, sym)
	assert.Equal(t, 1, tbl.Len())
}

func TestInsertAppendsToChainTail(t *testing.T) {
	tbl := New(10, nil, 1)

	for i, name := range []string{"y", "ab", "<="} {
		pos, ok := tbl.Insert(name, "ID")
		require.True(t, ok)
		assert.Equal(t, Position{Bucket: 1, Index: i}, pos, name)
	}

	dump := tbl.Dump()
	require.Len(t, dump, 1)
	assert.Equal(t, 1, dump[0].Index)
	assert.Equal(t, []Symbol{{"y", "ID"}, {"ab", "ID"}, {"<=", "ID"}}, dump[0].Symbols)
}

func TestNamesAreCaseSensitive(t *testing.T) {
	tbl := New(7, nil, 1)

	_, ok := tbl.Insert("Count", "int")
	require.True(t, ok)
	_, ok = tbl.Insert("count", "int")
	assert.True(t, ok)
	assert.Equal(t, 2, tbl.Len())
}

func TestLookupMissing(t *testing.T) {
	tbl := New(10, nil, 1)
	tbl.Insert("x", "int")

	_, _, found := tbl.Lookup("foo")
	assert.False(t, found, "same bucket, different name")
	_, _, found = tbl.Lookup("nothing")
	assert.False(t, found)
}

func TestLookupDoesNotConsultParent(t *testing.T) {
	root := New(10, nil, 1)
	root.Insert("x", "int")
	child := New(10, root, 2)

	_, _, found := child.Lookup("x")
	assert.False(t, found)
}

func TestRemove(t *testing.T) {
	cases := []struct {
		name     string
		target   string
		expected []Symbol
		pos      Position
	}{
		{name: "Head", target: "y", expected: []Symbol{{"ab", "T"}, {"<=", "T"}}, pos: Position{1, 0}},
		{name: "Middle", target: "ab", expected: []Symbol{{"y", "T"}, {"<=", "T"}}, pos: Position{1, 1}},
		{name: "Tail", target: "<=", expected: []Symbol{{"y", "T"}, {"ab", "T"}}, pos: Position{1, 2}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tbl := New(10, nil, 1)
			for _, n := range []string{"y", "ab", "<="} {
				tbl.Insert(n, "T")
			}

			pos, ok := tbl.Remove(tc.target)
			require.True(t, ok)
			assert.Equal(t, tc.pos, pos)

			dump := tbl.Dump()
			require.Len(t, dump, 1)
			assert.Equal(t, tc.expected, dump[0].Symbols)
			assert.Equal(t, 2, tbl.Len())

			_, _, found := tbl.Lookup(tc.target)
			assert.False(t, found)
		})
	}
}

func TestRemoveMissing(t *testing.T) {
	tbl := New(10, nil, 1)
	tbl.Insert("x", "int")

	_, ok := tbl.Remove("foo")
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())
}

func TestRemoveLastEmptiesBucket(t *testing.T) {
	tbl := New(10, nil, 1)
	tbl.Insert("x", "int")

	_, ok := tbl.Remove("x")
	require.True(t, ok)
	assert.Empty(t, tbl.Dump())

	_, ok = tbl.Insert("x", "bool")
	assert.True(t, ok, "name can be rebound after removal")
}

func TestDumpOrdersBucketsAndCopies(t *testing.T) {
	tbl := New(10, nil, 1)
	tbl.Insert("bar", "FUNCTION") // bucket 7
	tbl.Insert("y", "bool")       // bucket 1
	tbl.Insert("x", "int")        // bucket 0
	tbl.Insert("foo", "FUNCTION") // bucket 0

	dump := tbl.Dump()
	require.Len(t, dump, 3)
	assert.Equal(t, []int{0, 1, 7}, []int{dump[0].Index, dump[1].Index, dump[2].Index})
	assert.Equal(t, []Symbol{{"x", "int"}, {"foo", "FUNCTION"}}, dump[0].Symbols)

	dump[0].Symbols[0].Type = "mutated"
	sym, _, _ := tbl.Lookup("x")
	assert.Equal(t, "int", sym.Type)
}

func TestLabelsAndDepth(t *testing.T) {
	root := New(5, nil, 1)
	a := New(5, root, 2)
	a1 := New(5, a, 3)
	b := New(5, root, 4)

	assert.Equal(t, "1", root.Label())
	assert.Equal(t, "1.1", a.Label())
	assert.Equal(t, "1.1.1", a1.Label())
	assert.Equal(t, "1.2", b.Label())
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 2, a1.Depth())
	assert.Same(t, root, b.Parent())
}

func TestEachStopsEarly(t *testing.T) {
	tbl := New(10, nil, 1)
	tbl.Insert("x", "int")
	tbl.Insert("foo", "int")
	tbl.Insert("y", "int")

	var seen []string
	tbl.Each(func(s Symbol, _ Position) bool {
		seen = append(seen, s.Name)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"x", "foo"}, seen)
}

func TestRelease(t *testing.T) {
	root := New(10, nil, 1)
	child := New(10, root, 2)
	child.Insert("x", "int")
	child.Insert("y", "int")

	child.Release()
	assert.Equal(t, 0, child.Len())
	assert.Empty(t, child.Dump())
	assert.Nil(t, child.Parent())
	assert.Equal(t, 2, child.ID())
}

func TestNewPanicsOnNonPositiveBuckets(t *testing.T) {
	assert.Panics(t, func() { New(0, nil, 1) })
}
