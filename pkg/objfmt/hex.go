package objfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eduproc/educpu/pkg/errs"
	"github.com/eduproc/educpu/pkg/image"
)

const hexRecordWidth = 16

// WriteHex emits one Intel HEX data record (type 00) per contiguous run of
// up to hexRecordWidth bytes, in ascending address order, followed by a
// single EOF record (type 01).
func WriteHex(img *image.Image) string {
	var b strings.Builder
	for _, run := range contiguousRuns(img, hexRecordWidth) {
		writeHexRecord(&b, 0x00, run.addr, run.data)
	}
	writeHexRecord(&b, 0x01, 0, nil)
	return b.String()
}

func writeHexRecord(b *strings.Builder, recType byte, addr int, data []byte) {
	sum := byte(len(data)) + byte(addr>>8) + byte(addr) + recType
	for _, d := range data {
		sum += d
	}
	cksum := -sum

	fmt.Fprintf(b, ":%02X%04X%02X", len(data), addr, recType)
	for _, d := range data {
		fmt.Fprintf(b, "%02X", d)
	}
	fmt.Fprintf(b, "%02X\n", cksum)
}

// LoadHex parses Intel HEX text back into an image, validating the
// checksum of every record and rejecting addresses outside 0..255.
func LoadHex(data string) (*image.Image, error) {
	img := image.New()
	lines := strings.Split(data, "\n")

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "record must start with ':'"}
		}
		body := line[1:]
		if len(body) < 10 || len(body)%2 != 0 {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "malformed record length"}
		}
		bytesOf, err := hexDecode(body)
		if err != nil {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: err.Error()}
		}
		if len(bytesOf) < 5 {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "record too short"}
		}

		count := int(bytesOf[0])
		addr := int(bytesOf[1])<<8 | int(bytesOf[2])
		recType := bytesOf[3]
		wantLen := 4 + count + 1
		if len(bytesOf) != wantLen {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "data length does not match byte count field"}
		}
		payload := bytesOf[4 : 4+count]
		gotChecksum := bytesOf[len(bytesOf)-1]

		var sum byte
		for _, b := range bytesOf[:len(bytesOf)-1] {
			sum += b
		}
		if -sum != gotChecksum {
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "checksum mismatch"}
		}

		switch recType {
		case 0x00:
			if addr+count-1 > 255 {
				return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: "address out of range 0..255"}
			}
			for i, b := range payload {
				img.Write(addr+i, b)
			}
		case 0x01:
			return img, nil
		default:
			return nil, &errs.ObjectFormatError{Line: lineNo + 1, Reason: fmt.Sprintf("unsupported record type %02x", recType)}
		}
	}

	return nil, &errs.ObjectFormatError{Line: len(lines), Reason: "missing EOF record"}
}

func hexDecode(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex digits %q", s[i*2:i*2+2])
		}
		out[i] = byte(v)
	}
	return out, nil
}

type run struct {
	addr int
	data []byte
}

// contiguousRuns groups an image's written addresses into ascending,
// address-contiguous chunks no longer than width, splitting a run whenever
// an address gap appears. Shared by the HEX and S-record writers.
func contiguousRuns(img *image.Image, width int) []run {
	addrs := img.Addresses()
	var runs []run
	i := 0
	for i < len(addrs) {
		start := addrs[i]
		var data []byte
		j := i
		for j < len(addrs) && addrs[j] == start+len(data) && len(data) < width {
			b, _ := img.Read(addrs[j])
			data = append(data, b)
			j++
		}
		runs = append(runs, run{addr: start, data: data})
		i = j
	}
	return runs
}
