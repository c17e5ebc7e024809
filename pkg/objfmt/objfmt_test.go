package objfmt

import (
	"testing"

	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/image"
)

func sampleImage() *image.Image {
	img := image.New()
	img.Write(0, 0x00)
	img.Write(1, 0x25)
	img.Write(2, 0x30)
	img.Write(0x10, 0xAB)
	img.Write(0xFF, 0x41)
	return img
}

func imagesEqual(a, b *image.Image) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, addr := range a.Addresses() {
		av, _ := a.Read(addr)
		bv, ok := b.Read(addr)
		if !ok || av != bv {
			return false
		}
	}
	return true
}

func TestBinRoundTrip(t *testing.T) {
	img := sampleImage()
	data := WriteBin(img)
	got := LoadBin(data)
	// LoadBin considers every index up to len(data)-1 loaded, including
	// the zero-filled gaps, so compare against the bin rendering rather
	// than the sparse original.
	want := LoadBin(WriteBin(img))
	if !imagesEqual(got, want) {
		t.Errorf("bin round-trip mismatch")
	}
	if got.Max() != img.Max() {
		t.Errorf("Max = %d, want %d", got.Max(), img.Max())
	}
}

func TestHexRoundTrip(t *testing.T) {
	img := sampleImage()
	hex := WriteHex(img)
	got, err := LoadHex(hex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !imagesEqual(img, got) {
		t.Errorf("hex round-trip mismatch: got %v", got.Addresses())
	}
}

func TestHexRejectsBadChecksum(t *testing.T) {
	img := sampleImage()
	hex := WriteHex(img)
	corrupted := []byte(hex)
	// Flip a digit in the first record's checksum.
	for i, c := range corrupted {
		if c == '\n' {
			corrupted[i-1] = flipHexDigit(corrupted[i-1])
			break
		}
	}
	_, err := LoadHex(string(corrupted))
	if err == nil {
		t.Fatal("expected checksum mismatch error")
	}
	if _, ok := err.(*errs.ObjectFormatError); !ok {
		t.Errorf("expected *errs.ObjectFormatError, got %T", err)
	}
}

func flipHexDigit(c byte) byte {
	if c == '0' {
		return '1'
	}
	return '0'
}

func TestSRecRoundTrip(t *testing.T) {
	img := sampleImage()
	s := WriteSRec(img, "EDUCPU")
	got, err := LoadSRec(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !imagesEqual(img, got) {
		t.Errorf("srec round-trip mismatch")
	}
}

func TestDetectByExtension(t *testing.T) {
	cases := map[string]Format{
		"prog.bin":  FormatBin,
		"prog.hex":  FormatHex,
		"prog.srec": FormatSRec,
	}
	for name, want := range cases {
		got, ok := DetectByExtension(name)
		if !ok || got != want {
			t.Errorf("DetectByExtension(%q) = %v, %v; want %v, true", name, got, ok, want)
		}
	}
	if _, ok := DetectByExtension("prog.rom"); ok {
		t.Error("expected unrecognised extension")
	}
}

func TestDetectByContent(t *testing.T) {
	if f := DetectByContent([]byte(":100000000...")); f != FormatHex {
		t.Errorf("got %v, want FormatHex", f)
	}
	if f := DetectByContent([]byte("S0030000FC\n")); f != FormatSRec {
		t.Errorf("got %v, want FormatSRec", f)
	}
	if f := DetectByContent([]byte{0x00, 0xA8}); f != FormatBin {
		t.Errorf("got %v, want FormatBin", f)
	}
}

func TestLoadMultiOverlapDetection(t *testing.T) {
	imgA := image.New()
	imgA.Write(0x10, 0x01)
	imgB := image.New()
	imgB.Write(0x10, 0x02)

	fileA := File{Name: "a.hex", Data: []byte(WriteHex(imgA))}
	fileB := File{Name: "b.hex", Data: []byte(WriteHex(imgB))}

	_, err := LoadMulti([]File{fileA, fileB})
	if err == nil {
		t.Fatal("expected OverlapError")
	}
	overlap, ok := err.(*errs.OverlapError)
	if !ok {
		t.Fatalf("expected *errs.OverlapError, got %T", err)
	}
	if overlap.FileA != "a.hex" || overlap.FileB != "b.hex" {
		t.Errorf("got overlap between %s and %s", overlap.FileA, overlap.FileB)
	}
	if len(overlap.Addresses) != 1 || overlap.Addresses[0] != 0x10 {
		t.Errorf("got addresses %v, want [0x10]", overlap.Addresses)
	}
}

func TestLoadMultiDisjointMerges(t *testing.T) {
	imgA := image.New()
	imgA.Write(0x00, 0x01)
	imgB := image.New()
	imgB.Write(0x10, 0x02)

	merged, err := LoadMulti([]File{
		{Name: "a.hex", Data: []byte(WriteHex(imgA))},
		{Name: "b.hex", Data: []byte(WriteHex(imgB))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := merged.Read(0x00); !ok || b != 0x01 {
		t.Errorf("merged[0x00] = %v, %v", b, ok)
	}
	if b, ok := merged.Read(0x10); !ok || b != 0x02 {
		t.Errorf("merged[0x10] = %v, %v", b, ok)
	}
}

func TestLoadMultiRejectsMultipleRawBinaries(t *testing.T) {
	_, err := LoadMulti([]File{
		{Name: "a.bin", Data: []byte{0x01}},
		{Name: "b.bin", Data: []byte{0x02}},
	})
	if err == nil {
		t.Fatal("expected error rejecting multiple raw binary files")
	}
}
