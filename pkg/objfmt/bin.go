package objfmt

import "github.com/eduproc/educpu/pkg/image"

// WriteBin emits every byte from address 0 to the image's highest written
// address, filling unwritten cells with 0x00. An empty image yields an
// empty slice.
func WriteBin(img *image.Image) []byte {
	max := img.Max()
	if max < 0 {
		return nil
	}
	out := make([]byte, max+1)
	for _, addr := range img.Addresses() {
		b, _ := img.Read(addr)
		out[addr] = b
	}
	return out
}

// LoadBin reconstructs an image from raw bytes, address i holding data[i].
// Raw binary carries no provenance of which cells were "really" written
// versus merely zero-filled, so every byte is considered loaded — this is
// why the loader restricts raw binary to single-file loads.
func LoadBin(data []byte) *image.Image {
	img := image.New()
	for i, b := range data {
		img.Write(i, b)
	}
	return img
}
