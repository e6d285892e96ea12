// Package hash maps identifier names onto bucket indexes.
package hash

// SDBM returns the bucket index of name in a table of the given size.
//
// The accumulator is a 32-bit unsigned polynomial over the bytes of name
// (h = c + h<<6 + h<<16 - h), so the result is stable across runs and
// platforms. buckets must be positive.
func SDBM(name string, buckets int) int {
	if buckets <= 0 {
		panic("hash: bucket count must be positive")
	}
	var h uint32
	for i := 0; i < len(name); i++ {
		h = uint32(name[i]) + (h << 6) + (h << 16) - h
	}
	return int(h % uint32(buckets))
}
