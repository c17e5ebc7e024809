// Package objfmt serialises and reconstructs an address→byte image in the
// three object formats the simulator and assembler agree on: raw binary,
// Intel HEX, and Motorola S-record. Writers always iterate addresses in
// ascending order so the emitted file is deterministic; loaders autodetect
// format by file extension and fall back to content sniffing.
package objfmt

import (
	"strings"

	"github.com/eduproc/educpu/pkg/image"
)

// Format names one of the three on-disk object representations.
type Format int

const (
	FormatBin Format = iota
	FormatHex
	FormatSRec
)

func (f Format) String() string {
	switch f {
	case FormatBin:
		return "bin"
	case FormatHex:
		return "hex"
	case FormatSRec:
		return "srec"
	default:
		return "unknown"
	}
}

// Extension returns the canonical file extension (including the dot) for f.
func (f Format) Extension() string {
	switch f {
	case FormatHex:
		return ".hex"
	case FormatSRec:
		return ".srec"
	default:
		return ".bin"
	}
}

// DetectByExtension maps a file's extension to a Format, if recognised.
func DetectByExtension(name string) (Format, bool) {
	switch {
	case strings.HasSuffix(name, ".bin"):
		return FormatBin, true
	case strings.HasSuffix(name, ".hex"):
		return FormatHex, true
	case strings.HasSuffix(name, ".srec"):
		return FormatSRec, true
	default:
		return 0, false
	}
}

// DetectByContent inspects the first non-whitespace byte of data: ':' means
// Intel HEX, 'S' means S-record, anything else is treated as raw binary.
func DetectByContent(data []byte) Format {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return FormatHex
		case 'S':
			return FormatSRec
		default:
			return FormatBin
		}
	}
	return FormatBin
}

// Write serialises img in the given format. progName is only used by
// FormatSRec's S0 header record.
func Write(img *image.Image, format Format, progName string) ([]byte, error) {
	switch format {
	case FormatBin:
		return WriteBin(img), nil
	case FormatHex:
		return []byte(WriteHex(img)), nil
	case FormatSRec:
		return []byte(WriteSRec(img, progName)), nil
	default:
		return nil, &unknownFormatError{}
	}
}

type unknownFormatError struct{}

func (e *unknownFormatError) Error() string { return "objfmt: unknown format" }
