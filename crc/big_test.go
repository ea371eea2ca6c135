package crc

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"reflect"
	"testing"
	"testing/quick"

	mrand "math/rand"

	"golang.org/x/xerrors"
)

func bigHex(s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic("invalid hex literal: " + s)
	}
	return x
}

type bigAnswer struct {
	Name string
	BigParams
	Check string
}

var bigAnswers = []bigAnswer{
	{"CRC-82/DARC", BigParams{bigHex("0x0308C0111011401440411"), 82, nil, nil, true, true}, "0x9ea83f625023801fd612"},
	{"CRC-65", BigParams{big.NewInt(0x1B), 65, nil, nil, false, false}, "0x1e4ffbea5889314df"},
	{"CRC-65/REFLECTED", BigParams{big.NewInt(0x1B), 65, bigMask(65), bigMask(65), true, true}, "0x2246ad8eeb482003"},
	{"CRC-72", BigParams{big.NewInt(0x1B), 72, nil, nil, false, false}, "0xc9e4ffbea588930a25"},
	{"CRC-88", BigParams{bigHex("0x0308C0111011401440411"), 88, bigHex("0x123456789ABCDEF"), big.NewInt(0xFF), true, false}, "0xe084652186949b011e9226"},
	{"CRC-128", BigParams{big.NewInt(0x87), 128, nil, nil, false, false}, "0x180e870396109919b42f"},
	{"CRC-128/REFLECTED", BigParams{big.NewInt(0x87), 128, bigMask(128), bigMask(128), true, true}, "0x6a67aef13176b1fe3e1c000000000000"},
}

func TestBigKnownAnswers(t *testing.T) {
	for _, ba := range bigAnswers {
		expt := bigHex(ba.Check)

		crc, err := ComputeBig(ba.BigParams, check)
		if err != nil {
			t.Fatalf("%s: %+v\n", ba.Name, err)
		}
		if crc.Cmp(expt) != 0 {
			t.Fatalf("%s: expected %#x got %#x\n", ba.Name, expt, crc)
		}

		// Bitwise only sees xor-in once width bits have been consumed.
		if ba.TableDriven() && (ba.XorIn == nil || len(check)*8 >= ba.Width) {
			bitwise, err := BitwiseBig(ba.BigParams, check)
			if err != nil {
				t.Fatalf("%s: %+v\n", ba.Name, err)
			}
			if bitwise.Cmp(expt) != 0 {
				t.Fatalf("%s bitwise: expected %#x got %#x\n", ba.Name, expt, bitwise)
			}
		}

		d, err := NewBig(ba.BigParams)
		if err != nil {
			t.Fatalf("%s: %+v\n", ba.Name, err)
		}
		for idx := range check {
			d.Write(check[idx : idx+1])
		}
		if sum := d.SumBig(); sum.Cmp(expt) != 0 {
			t.Fatalf("%s digest: expected %#x got %#x\n", ba.Name, expt, sum)
		}
	}
}

// The math/big engines must agree with the uint64 engines wherever both
// apply.
func TestBigMatchesSmall(t *testing.T) {
	err := quick.Check(func(cc ChunkCase) bool {
		data := bytes.Join(cc.Chunks, nil)
		bp := cc.Params.Big()

		small, err := Bitwise(cc.Params, data)
		if err != nil {
			return false
		}
		wide, err := BitwiseBig(bp, data)
		if err != nil || !wide.IsUint64() || wide.Uint64() != small {
			return false
		}

		if !cc.TableDriven() {
			return true
		}

		small, err = Checksum(cc.Params, data)
		if err != nil {
			return false
		}
		wide, err = ChecksumBig(bp, data)
		return err == nil && wide.IsUint64() && wide.Uint64() == small
	}, &quick.Config{MaxCount: Trials})

	if err != nil {
		t.Fatal("Error comparing wide and narrow engines:", err)
	}
}

func randBig(rand *mrand.Rand, width int) *big.Int {
	buf := make([]byte, (width+7)/8)
	rand.Read(buf)
	return new(big.Int).And(new(big.Int).SetBytes(buf), bigMask(width))
}

// Random parameters wider than 64 bits, half of them table-driven, with input
// at least width bits long.
type WideCase struct {
	BigParams
	Data []byte
}

func (WideCase) Generate(rand *mrand.Rand, size int) reflect.Value {
	var wc WideCase
	if rand.Intn(2) == 0 {
		wc.Width = 8 * (rand.Intn(16) + 9)
	} else {
		wc.Width = rand.Intn(192) + 65
	}

	wc.Poly = randBig(rand, wc.Width)
	wc.XorIn = randBig(rand, wc.Width)
	wc.XorOut = randBig(rand, wc.Width)
	wc.ReflectIn = rand.Intn(2) == 1
	wc.ReflectOut = rand.Intn(2) == 1

	wc.Data = make([]byte, (wc.Width+7)/8+rand.Intn(64))
	rand.Read(wc.Data)

	return reflect.ValueOf(wc)
}

func TestBigEnginesAgree(t *testing.T) {
	err := quick.Check(func(wc WideCase) bool {
		if !wc.TableDriven() {
			return true
		}

		table, err := ChecksumBig(wc.BigParams, wc.Data)
		if err != nil {
			return false
		}
		bitwise, err := BitwiseBig(wc.BigParams, wc.Data)
		if err != nil {
			return false
		}
		return table.Cmp(bitwise) == 0
	}, &quick.Config{MaxCount: Trials})

	if err != nil {
		t.Fatal("Error comparing wide engines:", err)
	}
}

func TestBigDigestChunks(t *testing.T) {
	err := quick.Check(func(wc WideCase) bool {
		d, err := NewBig(wc.BigParams)
		if err != nil {
			return false
		}

		split := len(wc.Data) / 3
		d.Write(wc.Data[:split])
		d.SumBig()
		d.Write(wc.Data[split:])

		whole, err := ComputeBig(wc.BigParams, wc.Data)
		if err != nil {
			return false
		}
		if d.SumBig().Cmp(whole) != 0 {
			return false
		}

		d.Reset()
		d.Write(wc.Data)
		return d.SumBig().Cmp(whole) == 0
	}, &quick.Config{MaxCount: Trials / 4})

	if err != nil {
		t.Fatal("Error testing chunked wide digest:", err)
	}
}

func TestBigDigest(t *testing.T) {
	for _, tc := range []struct {
		p      BigParams
		engine string
		size   int
		sum    string
	}{
		{bigAnswers[0].BigParams, "bitwise", 11, "009ea83f625023801fd612"},
		{bigAnswers[3].BigParams, "table", 9, "c9e4ffbea588930a25"},
		{Params{0x04C11DB7, 32, 0xFFFFFFFF, 0xFFFFFFFF, true, true}.Big(), "table", 4, "cbf43926"},
		{Params{0x05, 5, 0x1F, 0x1F, true, true}.Big(), "bitwise", 1, "19"},
	} {
		d, err := NewBig(tc.p)
		if err != nil {
			t.Fatal(err)
		}
		d.Write(check)

		if d.Engine() != tc.engine {
			t.Fatalf("%s: expected %s engine got %s\n", tc.p, tc.engine, d.Engine())
		}
		if d.Size() != tc.size || d.BlockSize() != 1 {
			t.Fatalf("%s: expected size %d got %d\n", tc.p, tc.size, d.Size())
		}
		if sum := hex.EncodeToString(d.Sum(nil)); sum != tc.sum {
			t.Fatalf("%s: expected %s got %s\n", tc.p, tc.sum, sum)
		}
	}

	if _, err := NewBig(BigParams{Poly: big.NewInt(1)}); !xerrors.Is(err, ErrInvalidWidth) {
		t.Fatalf("Expected ErrInvalidWidth got %+v\n", err)
	}
}

func TestBigParams(t *testing.T) {
	p := Params{0x1021, 16, 0xFFFF, 0, false, true}
	bp := p.Big()

	if bp.String() != p.String() {
		t.Fatalf("Expected %q got %q\n", p.String(), bp.String())
	}
	if small, ok := bp.Small(); !ok || small != p {
		t.Fatalf("Expected %s got %s, %t\n", p, small, ok)
	}

	if _, ok := bigAnswers[0].Small(); ok {
		t.Fatal("Expected 82-bit parameters not to narrow")
	}

	// Nil values are zero.
	crc, err := ComputeBig(BigParams{Poly: big.NewInt(0x07), Width: 8}, check)
	if err != nil {
		t.Fatal(err)
	}
	if crc.Int64() != 0xF4 {
		t.Fatalf("Expected 0xF4 got %#x\n", crc)
	}

	for _, width := range []int{0, -8} {
		if _, err := ComputeBig(BigParams{Poly: big.NewInt(1), Width: width}, check); !xerrors.Is(err, ErrInvalidWidth) {
			t.Fatalf("width %d: expected ErrInvalidWidth got %+v\n", width, err)
		}
	}
	if _, err := ChecksumBig(bigAnswers[0].BigParams, check); !xerrors.Is(err, ErrTableWidth) {
		t.Fatalf("Expected ErrTableWidth got %+v\n", err)
	}
}

func TestReflectBig(t *testing.T) {
	err := quick.Check(func(x uint64, w uint8) bool {
		width := int(w%64) + 1
		return ReflectBig(new(big.Int).SetUint64(x), width).Uint64() == Reflect(x, width)
	}, nil)
	if err != nil {
		t.Fatal("Error comparing reflection:", err)
	}

	x := bigHex("0x9EA83F625023801FD612")
	if r := ReflectBig(ReflectBig(x, 82), 82); r.Cmp(x) != 0 {
		t.Fatalf("Expected %#x got %#x\n", x, r)
	}
}

func TestBigTable(t *testing.T) {
	err := quick.Check(func(poly uint64, w uint8) bool {
		width := 8 * (int(w%8) + 1)
		small := NewTable(poly&mask(width), width)
		wide := NewBigTable(new(big.Int).SetUint64(poly), width)

		for idx := range small {
			if !wide[idx].IsUint64() || wide[idx].Uint64() != small[idx] {
				return false
			}
		}
		return true
	}, nil)
	if err != nil {
		t.Fatal("Error comparing tables:", err)
	}
}

func TestFromKoopmanBig(t *testing.T) {
	for _, tc := range []struct {
		k, poly string
		width   int
	}{
		{"0x83", "0x07", 8},
		{"0x82608EDB", "0x04C11DB7", 32},
		{"0x218460088808A00A20208", "0x308C0111011401440411", 82},
	} {
		poly, width, err := FromKoopmanBig(bigHex(tc.k))
		if err != nil {
			t.Fatal(err)
		}
		if poly.Cmp(bigHex(tc.poly)) != 0 || width != tc.width {
			t.Fatalf("%s: expected %s/%d got %#x/%d\n", tc.k, tc.poly, tc.width, poly, width)
		}
	}

	for _, k := range []*big.Int{new(big.Int), big.NewInt(-1)} {
		if _, _, err := FromKoopmanBig(k); !xerrors.Is(err, ErrInvalidWidth) {
			t.Fatalf("%v: expected ErrInvalidWidth got %+v\n", k, err)
		}
	}
}
