package codec

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// LoadFile decodes the BMP stored at path.
func LoadFile(path string) (*bitmap.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap: %w", err)
	}
	defer f.Close()

	b, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}

// SaveFile encodes b and writes it to path, replacing any existing file.
func SaveFile(path string, b *bitmap.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bitmap: %w", err)
	}
	if err := Encode(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
