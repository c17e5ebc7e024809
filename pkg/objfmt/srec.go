package objfmt

import (
	"fmt"
	"strings"

	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/image"
)

const srecRecordWidth = 16

// WriteSRec emits an S0 header carrying progName, one S1 data record per
// contiguous run of up to srecRecordWidth bytes, and a final S9
// termination record.
func WriteSRec(img *image.Image, progName string) string {
	var b strings.Builder
	writeSRecord(&b, '0', 0, []byte(progName))
	for _, run := range contiguousRuns(img, srecRecordWidth) {
		writeSRecord(&b, '1', run.addr, run.data)
	}
	writeSRecord(&b, '9', 0, nil)
	return b.String()
}

func writeSRecord(b *strings.Builder, recType byte, addr int, data []byte) {
	count := 2 + len(data) + 1 // address bytes + data + checksum byte
	var sum byte
	sum += byte(count)
	sum += byte(addr >> 8)
	sum += byte(addr)
	for _, d := range data {
		sum += d
	}
	cksum := ^sum

	fmt.Fprintf(b, "S%c%02X%04X", recType, count, addr)
	for _, d := range data {
		fmt.Fprintf(b, "%02X", d)
	}
	fmt.Fprintf(b, "%02X\n", cksum)
}

// LoadSRec parses Motorola S-record text back into an image, validating
// the one's-complement checksum of every record.
func LoadSRec(data string) (*image.Image, error) {
	img := image.New()
	lines := strings.Split(data, "\n")
	sawData := false

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(line) < 4 || line[0] != 'S' {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "record must start with 'S'"}
		}
		recType := line[1]
		body := line[2:]
		if len(body) < 8 || len(body)%2 != 0 {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "malformed record length"}
		}
		bytesOf, err := hexDecode(body)
		if err != nil {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: err.Error()}
		}

		count := int(bytesOf[0])
		if count+1 != len(bytesOf) {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "byte count does not match record length"}
		}
		addr := int(bytesOf[1])<<8 | int(bytesOf[2])
		payload := bytesOf[3 : len(bytesOf)-1]
		gotChecksum := bytesOf[len(bytesOf)-1]

		var sum byte
		for _, b := range bytesOf[:len(bytesOf)-1] {
			sum += b
		}
		if ^sum != gotChecksum {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "checksum mismatch"}
		}

		switch recType {
		case '0':
			// header, no data to load
		case '1':
			if addr+len(payload)-1 > 255 {
				return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "address out of range 0..255"}
			}
			for i, b := range payload {
				img.Write(addr+i, b)
			}
			sawData = true
		case '9':
			if !sawData {
				return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "S9 termination with no preceding S1 data"}
			}
			return img, nil
		default:
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: fmt.Sprintf("unsupported record type S%c", recType)}
		}
	}

	return nil, &errs.ObjectFormatError{Line: len(lines), Reason: "missing S9 termination record"}
}
