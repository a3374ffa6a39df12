package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Encode writes b to w as an uncompressed BMP.
//
// The height is written as a positive number and rows are emitted bottom-up, the last
// in-memory row first, so that Decode's row reversal restores the original order.
func Encode(w io.Writer, b *bitmap.Buffer) error {
	if err := bitmap.Validate(b); err != nil {
		return err
	}

	dataLen := len(b.Data())
	fh := fileHeader{
		Magic:      magic,
		FileSize:   uint32(headersLen + dataLen),
		DataOffset: headersLen,
	}
	ih := infoHeader{
		HeaderSize:   infoHeaderLen,
		Width:        int32(b.Width()),
		Height:       int32(b.Height()),
		Planes:       1,
		BitsPerPixel: uint16(b.BitsPerPixel()),
		Compression:  compressionRGB,
		ImageSize:    uint32(dataLen),
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &fh); err != nil {
		return fmt.Errorf("failed to write file header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, &ih); err != nil {
		return fmt.Errorf("failed to write info header: %w", err)
	}
	for y := b.Height() - 1; y >= 0; y-- {
		if _, err := bw.Write(b.Row(y)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", y, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush bitmap: %w", err)
	}
	return nil
}

// EncodeBytes encodes b into a new byte slice.
func EncodeBytes(b *bitmap.Buffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
