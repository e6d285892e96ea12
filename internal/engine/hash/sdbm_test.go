package hash

import "testing"

func TestSDBMKnownValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		buckets  int
		expected int
	}{
		{name: "Empty", input: "", buckets: 10, expected: 0},
		{name: "SingleByte", input: "a", buckets: 10, expected: 7},
		{name: "TwoBytes", input: "ab", buckets: 7, expected: 5},
		{name: "Foo", input: "foo", buckets: 10, expected: 0},
		{name: "Bar", input: "bar", buckets: 10, expected: 7},
		{name: "Wraps32Bits", input: "main", buckets: 10, expected: 7},
		{name: "Operator", input: "<=", buckets: 7, expected: 6},
		{name: "SingleBucket", input: "anything", buckets: 1, expected: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SDBM(tc.input, tc.buckets); got != tc.expected {
				t.Fatalf("SDBM(%q, %d): expected %d, got %d", tc.input, tc.buckets, tc.expected, got)
			}
		})
	}
}

func TestSDBMDeterministic(t *testing.T) {
	names := []string{"x", "y", "counter", "ünïcode", "a_much_longer_identifier_name"}
	for _, n := range names {
		first := SDBM(n, 13)
		for i := 0; i < 100; i++ {
			if got := SDBM(n, 13); got != first {
				t.Fatalf("SDBM(%q) changed between calls: %d then %d", n, first, got)
			}
		}
		if first < 0 || first >= 13 {
			t.Fatalf("SDBM(%q) out of range: %d", n, first)
		}
	}
}

func TestSDBMPanicsOnNonPositiveBuckets(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero buckets")
		}
	}()
	SDBM("x", 0)
}
