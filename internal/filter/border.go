package filter

// Reflect folds a sample coordinate into [0, dim). Negative coordinates are mirrored
// about zero; coordinates at or past dim map to dim-1.
func Reflect(coord, dim int) int {
	if coord < 0 {
		coord = -coord
	}
	if coord >= dim {
		coord -= coord - dim + 1
	}
	return coord
}
