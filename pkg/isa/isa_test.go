package isa

import "testing"

// TestCatalogCompleteness verifies every Op has a catalog entry with a
// mnemonic and a class-appropriate mode set.
func TestCatalogCompleteness(t *testing.T) {
	for op := Op(0); op < opCount; op++ {
		info := &Catalog[op]
		if info.Mnemonic == "" {
			t.Errorf("Op %d has no mnemonic", op)
		}
		switch info.Class {
		case ClassLoadStoreALU:
			if len(info.Modes) == 0 {
				t.Errorf("%s: ClassLoadStoreALU with no legal modes", info.Mnemonic)
			}
		case ClassRegUnary, ClassImplicit, ClassBranch:
			if len(info.Modes) != 0 {
				t.Errorf("%s: unexpected mode list for its class", info.Mnemonic)
			}
		}
	}
}

func TestLookupMnemonicCaseInsensitive(t *testing.T) {
	for _, s := range []string{"ld", "Ld", "LD", "lD"} {
		op, ok := LookupMnemonic(s)
		if !ok || op != OpLD {
			t.Errorf("LookupMnemonic(%q) = %v, %v; want OpLD, true", s, op, ok)
		}
	}
	if _, ok := LookupMnemonic("NOPE"); ok {
		t.Error("LookupMnemonic(\"NOPE\") should fail")
	}
}

func TestSizeRule(t *testing.T) {
	cases := []struct {
		op   Op
		mode Mode
		want int
	}{
		{OpLD, ModeImmediate, 2},
		{OpLD, ModeRegister, 1},
		{OpLD, ModeDirect, 2},
		{OpLD, ModeIndexed, 2},
		{OpRET, 0, 1},
		{OpNOP, 0, 1},
		{OpHLT, 0, 1},
		{OpPUSH, 0, 1},
		{OpPOP, 0, 1},
		{OpINC, 0, 1},
		{OpDEC, 0, 1},
		{OpJMP, 0, 2},
		{OpCALL, 0, 2},
		{OpBZ, 0, 2},
	}
	for _, c := range cases {
		if got := Size(c.op, c.mode); got != c.want {
			t.Errorf("Size(%v, %v) = %d, want %d", c.op, c.mode, got, c.want)
		}
	}
}

func TestRegBitTable(t *testing.T) {
	cases := []struct {
		primary, requested Reg
		wantBit            uint8
		wantOK             bool
	}{
		{RegA, RegR0, 0, true},
		{RegA, RegR1, 1, true},
		{RegA, RegA, 0, false},
		{RegR0, RegA, 0, true},
		{RegR0, RegR1, 1, true},
		{RegR1, RegA, 0, true},
		{RegR1, RegR0, 1, true},
	}
	for _, c := range cases {
		bit, ok := RegBit(c.primary, c.requested)
		if ok != c.wantOK || (ok && bit != c.wantBit) {
			t.Errorf("RegBit(%v, %v) = %d, %v; want %d, %v", c.primary, c.requested, bit, ok, c.wantBit, c.wantOK)
		}
	}
}

func TestOpcodeRoundTrip(t *testing.T) {
	for code := uint8(0); code < 25; code++ {
		for r := uint8(0); r < 2; r++ {
			for mm := Mode(0); mm < 4; mm++ {
				b := EncodeOpcode(code, r, mm)
				gotCode, gotR, gotMM := DecodeOpcode(b)
				if gotCode != code || gotR != r || gotMM != mm {
					t.Errorf("round trip mismatch for code=%d r=%d mm=%v: got %d %d %v", code, r, mm, gotCode, gotR, gotMM)
				}
			}
		}
	}
}

func TestIIIIIRoundTrip(t *testing.T) {
	for op := Op(0); op < opCount; op++ {
		primaries := []Reg{RegA}
		if op == OpLD || op == OpST {
			primaries = []Reg{RegA, RegR0, RegR1}
		}
		for _, primary := range primaries {
			code := IIIII(op, primary)
			gotOp, gotPrimary, ok := DecodeIIIII(code)
			if !ok {
				t.Fatalf("DecodeIIIII(%d) not ok for op=%v primary=%v", code, op, primary)
			}
			if gotOp != op || gotPrimary != primary {
				t.Errorf("IIIII/DecodeIIIII mismatch for op=%v primary=%v: got %v %v (code=%d)", op, primary, gotOp, gotPrimary, code)
			}
		}
	}
}

func TestIIIIIDistinctCodes(t *testing.T) {
	seen := map[uint8]bool{}
	for op := Op(0); op < opCount; op++ {
		primaries := []Reg{RegA}
		if op == OpLD || op == OpST {
			primaries = []Reg{RegA, RegR0, RegR1}
		}
		for _, primary := range primaries {
			code := IIIII(op, primary)
			if code > 31 {
				t.Fatalf("code %d for op=%v primary=%v overflows 5 bits", code, op, primary)
			}
			if seen[code] {
				t.Fatalf("duplicate instruction code %d", code)
			}
			seen[code] = true
		}
	}
}
