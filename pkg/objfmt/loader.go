package objfmt

import (
	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/image"
)

// Load autodetects format from name's extension, falling back to content
// sniffing, and parses data into an image.
func Load(name string, data []byte) (*image.Image, Format, error) {
	format, ok := DetectByExtension(name)
	if !ok {
		format = DetectByContent(data)
	}

	switch format {
	case FormatBin:
		return LoadBin(data), FormatBin, nil
	case FormatHex:
		img, err := LoadHex(string(data))
		return img, FormatHex, err
	case FormatSRec:
		img, err := LoadSRec(string(data))
		return img, FormatSRec, err
	default:
		return nil, format, &unknownFormatError{}
	}
}

// File pairs a name (used only for error messages and provenance) with its
// raw contents, as handed to the simulator CLI.
type File struct {
	Name string
	Data []byte
}

// LoadMulti loads every file and merges them into one image, maintaining a
// per-address provenance map. Raw binary is only legal when exactly one
// file is supplied, since it carries no information about which cells were
// actually written versus zero-filled. A second file writing a cell
// already claimed by an earlier one is a fatal OverlapError; loading stops
// before any file after the conflicting pair is parsed.
func LoadMulti(files []File) (*image.Image, error) {
	if len(files) == 0 {
		return image.New(), nil
	}

	merged := image.New()
	owner := make(map[int]string, 256)

	for _, f := range files {
		format, ok := DetectByExtension(f.Name)
		if !ok {
			format = DetectByContent(f.Data)
		}
		if format == FormatBin && len(files) > 1 {
			return nil, &errs.ObjectFormatError{File: f.Name, Reason: "raw binary is only permitted when loading a single file"}
		}

		var img *image.Image
		var err error
		switch format {
		case FormatBin:
			img = LoadBin(f.Data)
		case FormatHex:
			img, err = LoadHex(string(f.Data))
		case FormatSRec:
			img, err = LoadSRec(string(f.Data))
		}
		if err != nil {
			return nil, err
		}

		var conflictWith string
		var conflicts []int
		for _, addr := range img.Addresses() {
			if prior, claimed := owner[addr]; claimed {
				if conflictWith == "" {
					conflictWith = prior
				}
				if conflictWith == prior {
					conflicts = append(conflicts, addr)
				}
				continue
			}
			owner[addr] = f.Name
			b, _ := img.Read(addr)
			merged.Write(addr, b)
		}
		if len(conflicts) > 0 {
			return nil, &errs.OverlapError{FileA: conflictWith, FileB: f.Name, Addresses: firstN(conflicts, 8)}
		}
	}

	return merged, nil
}

func firstN(addrs []int, n int) []int {
	if len(addrs) <= n {
		return addrs
	}
	return addrs[:n]
}
