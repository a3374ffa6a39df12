package geometry

import "github.com/ironsheep/bmp-tools-mcp/internal/bitmap"

// HorizontalFlip mirrors b left to right in place.
//
// Only the B, G and R bytes of each pixel pair are exchanged; alpha stays with its
// column.
func HorizontalFlip(b *bitmap.Buffer) error {
	if err := bitmap.Validate(b); err != nil {
		return err
	}
	data := b.Data()
	w := b.Width()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < w/2; x++ {
			l := b.Offset(x, y)
			r := b.Offset(w-1-x, y)
			for c := 0; c < 3; c++ {
				data[l+c], data[r+c] = data[r+c], data[l+c]
			}
		}
	}
	return nil
}
