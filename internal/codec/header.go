package codec

// Container layout constants for the uncompressed BITMAPINFOHEADER variant.
const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headersLen    = fileHeaderLen + infoHeaderLen

	magic = 0x4D42 // "BM" read as a little-endian uint16

	compressionRGB = 0
)

// fileHeader is the 14-byte BITMAPFILEHEADER. Field order and widths match the
// on-disk layout; encoding/binary reads it without padding.
type fileHeader struct {
	Magic      uint16
	FileSize   uint32
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32
}

// infoHeader is the 40-byte BITMAPINFOHEADER.
type infoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32 // negative means rows are stored top-down
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMeter int32
	YPixelsPerMeter int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// Info describes a BMP file's headers.
type Info struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	TopDown      bool   `json:"top_down"`
	BitsPerPixel int    `json:"bit_count"`
	HasAlpha     bool   `json:"has_alpha"`
	Stride       int    `json:"stride"`
	ImageSize    int    `json:"image_size"`
	DataOffset   int    `json:"data_offset"`
	FileSize     int64  `json:"file_size_bytes,omitempty"`
	Format       string `json:"format"`
}
