package routine

// Overlaps reports whether the half-open ranges [startA, endA) and
// [startB, endB) intersect. Ranges that only touch do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return max(startA, startB) < min(endA, endB)
}
