package laplace

import (
	"bytes"
	"encoding/hex"
	"math"
	"math/rand"
	"testing"

	"github.com/thesyncim/celtlaplace/rangecoding"
)

// recorder captures the intervals handed to the coder.
type recorder struct {
	fm   uint32
	syms [][3]uint32
}

func (r *recorder) Encode(fl, fh, ft uint32) { r.syms = append(r.syms, [3]uint32{fl, fh, ft}) }
func (r *recorder) Decode(ft uint32) uint32 { return r.fm }
func (r *recorder) Update(fl, fh, ft uint32) { r.syms = append(r.syms, [3]uint32{fl, fh, ft}) }

// testDecays spans the whole Q14 range, both degenerate ends included.
var testDecays = []int{0, 1, 2, 100, 1000, 5000, 6000, 7000, 8192, 10000, 11456, 12000, 14000, 15000, 16000, 16202, 16380, 16383}

func TestStartFreq(t *testing.T) {
	tests := []struct {
		decay int
		want  int
	}{
		{0, 32767},
		{8192, 10922},
		{16383, 1},
		{5000, 17443},
		{15000, 1444},
	}
	for _, tc := range tests {
		if got := StartFreq(tc.decay); got != tc.want {
			t.Errorf("StartFreq(%d) = %d, want %d", tc.decay, got, tc.want)
		}
	}
}

func TestIntervalDecay8192(t *testing.T) {
	tests := []struct {
		value  int
		fl, fh uint32
	}{
		{0, 0, 10922},
		{1, 10922, 16383},
		{-1, 16383, 21844},
		{2, 21844, 24574},
		{-2, 24574, 27304},
		{13, 32750, 32751},
		{-13, 32751, 32752},
		{14, 32750, 32751},
		{-100, 32751, 32752},
	}
	for _, tc := range tests {
		fl, fh := Interval(tc.value, 8192)
		if fl != tc.fl || fh != tc.fh {
			t.Errorf("Interval(%d, 8192) = [%d, %d), want [%d, %d)", tc.value, fl, fh, tc.fl, tc.fh)
		}
	}
}

func TestEncodeZeroEmitsRingZero(t *testing.T) {
	var rec recorder
	if got := Encode(&rec, 0, 8192); got != 0 {
		t.Fatalf("Encode returned %d, want 0", got)
	}
	want := [3]uint32{0, 10922, Total}
	if len(rec.syms) != 1 || rec.syms[0] != want {
		t.Fatalf("coder saw %v, want [%v]", rec.syms, want)
	}

	for _, fm := range []uint32{0, 5000, 10921} {
		rec := recorder{fm: fm}
		if got := Decode(&rec, 8192); got != 0 {
			t.Errorf("Decode(fm=%d) = %d, want 0", fm, got)
		}
		if rec.syms[0] != want {
			t.Errorf("Decode(fm=%d) updated with %v, want %v", fm, rec.syms[0], want)
		}
	}
}

func TestSignHalvesDoNotOverlap(t *testing.T) {
	for _, decay := range testDecays {
		limit := MaxMagnitude(decay)
		for v := 1; v <= limit; v++ {
			pl, ph := Interval(v, decay)
			nl, nh := Interval(-v, decay)
			if pl >= ph || nl >= nh {
				t.Fatalf("decay %d value %d: empty half [%d,%d) / [%d,%d)", decay, v, pl, ph, nl, nh)
			}
			if ph != nl {
				t.Fatalf("decay %d value %d: positive half [%d,%d) does not abut negative half [%d,%d)",
					decay, v, pl, ph, nl, nh)
			}
			if ph-pl != nh-nl {
				t.Fatalf("decay %d value %d: halves differ in width", decay, v)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, decay := range testDecays {
		enc := &rangecoding.Encoder{}
		enc.Init(make([]byte, 1024))
		var coded []int
		for v := -64; v <= 64; v++ {
			coded = append(coded, Encode(enc, v, decay))
		}
		data := enc.Done()
		if enc.Error() != 0 {
			t.Fatalf("decay %d: encoder overflow", decay)
		}

		dec := &rangecoding.Decoder{}
		dec.Init(data)
		for i, want := range coded {
			v := i - 64
			if got := Decode(dec, decay); got != want {
				t.Fatalf("decay %d value %d: decoded %d, want %d", decay, v, got, want)
			}
			if abs(v) <= MaxMagnitude(decay) && want != v {
				t.Fatalf("decay %d value %d: representable value coded as %d", decay, v, want)
			}
		}
	}
}

// TestRoundTripRandom mirrors libopus test_unit_laplace.c: random values in
// [-7, 7] with random decays in [5000, 16000).
func TestRoundTripRandom(t *testing.T) {
	const n = 10000
	rng := rand.New(rand.NewSource(42))
	vals := make([]int, n)
	decays := make([]int, n)
	vals[0], decays[0] = 3, 6000
	vals[1], decays[1] = 0, 5800
	vals[2], decays[2] = -1, 5600
	for i := 3; i < n; i++ {
		vals[i] = rng.Intn(15) - 7
		decays[i] = rng.Intn(11000) + 5000
	}

	enc := &rangecoding.Encoder{}
	enc.Init(make([]byte, 40000))
	coded := make([]int, n)
	for i := range vals {
		coded[i] = Encode(enc, vals[i], decays[i])
	}
	data := enc.Done()

	dec := &rangecoding.Decoder{}
	dec.Init(data)
	for i := range vals {
		if got := Decode(dec, decays[i]); got != coded[i] {
			t.Fatalf("symbol %d: decoded %d, want %d (decay %d)", i, got, coded[i], decays[i])
		}
	}
}

func TestGoldenStream(t *testing.T) {
	enc := &rangecoding.Encoder{}
	enc.Init(make([]byte, 256))
	for i := 0; i < 32; i++ {
		v := (i*7)%15 - 7
		decay := 5000 + (i*2731)%11000
		if got := Encode(enc, v, decay); got != v {
			t.Fatalf("symbol %d: coded %d, want %d", i, got, v)
		}
	}
	if got := enc.Tell(); got != 171 {
		t.Errorf("Tell = %d, want 171", got)
	}
	want, _ := hex.DecodeString("ffe6b9218e9bb35210965fea1d093c8df668a04d5ae0")
	if got := enc.Done(); !bytes.Equal(got, want) {
		t.Fatalf("stream = %x, want %x", got, want)
	}
}

func TestSaturation(t *testing.T) {
	tests := []struct {
		value, decay, want int
	}{
		{14, 8192, 13},
		{-14, 8192, -13},
		{1 << 30, 8192, 13},
		{-(1 << 30), 8192, -13},
		{math.MinInt, 8192, -13},
		{math.MaxInt, 8192, 13},
		{math.MinInt, 15000, -60},
		{5, 0, 0},
		{-5, 0, 0},
		{-1, 16383, 0},
		{1, 16383, 0},
	}
	for _, tc := range tests {
		var rec recorder
		got := Encode(&rec, tc.value, tc.decay)
		if got != tc.want {
			t.Errorf("Encode(%d, decay %d) = %d, want %d", tc.value, tc.decay, got, tc.want)
		}
		if s := Saturate(tc.value, tc.decay); s != got {
			t.Errorf("Saturate(%d, %d) = %d, Encode returned %d", tc.value, tc.decay, s, got)
		}
		sym := rec.syms[0]
		if sym[0] >= sym[1] || sym[1] > Total {
			t.Errorf("Encode(%d, decay %d) emitted invalid symbol %v", tc.value, tc.decay, sym)
		}

		enc := &rangecoding.Encoder{}
		enc.Init(make([]byte, 64))
		Encode(enc, tc.value, tc.decay)
		Encode(enc, 1, 8192)
		dec := &rangecoding.Decoder{}
		dec.Init(enc.Done())
		if d := Decode(dec, tc.decay); d != tc.want {
			t.Errorf("decay %d: decoded %d, want saturated %d", tc.decay, d, tc.want)
		}
		if d := Decode(dec, 8192); d != 1 {
			t.Errorf("decay %d: stream out of sync after saturated symbol, next decoded %d", tc.decay, d)
		}
	}
}

func TestDecodeZeroWidthGuard(t *testing.T) {
	tests := []struct {
		decay  int
		fm     uint32
		want   int
		fl, fh uint32
	}{
		// Past the last ring: total mass at decay 8192 is 32752.
		{8192, 32760, -14, 32751, 32752},
		{8192, 32766, -14, 32751, 32752},
		{16383, 1, -1, 0, 1},
	}
	for _, tc := range tests {
		rec := recorder{fm: tc.fm}
		got := Decode(&rec, tc.decay)
		if got != tc.want {
			t.Errorf("decay %d fm %d: Decode = %d, want %d", tc.decay, tc.fm, got, tc.want)
		}
		want := [3]uint32{tc.fl, tc.fh, Total}
		if len(rec.syms) != 1 || rec.syms[0] != want {
			t.Errorf("decay %d fm %d: updated with %v, want %v", tc.decay, tc.fm, rec.syms, want)
		}
	}
}

func TestDecodeEveryFrequency(t *testing.T) {
	for _, decay := range testDecays {
		for fm := uint32(0); fm < Total; fm++ {
			rec := recorder{fm: fm}
			v := Decode(&rec, decay)
			sym := rec.syms[0]
			if sym[0] >= sym[1] || sym[1] > Total {
				t.Fatalf("decay %d fm %d: invalid update %v", decay, fm, sym)
			}
			if abs(v) > MaxMagnitude(decay)+1 {
				t.Fatalf("decay %d fm %d: value %d beyond the walk bound", decay, fm, v)
			}
			// Outside the guard case, re-encoding the value must give the
			// symbol the decoder resolved.
			if fm >= sym[0] && fm < sym[1] {
				fl, fh := Interval(v, decay)
				if fl != sym[0] || fh != sym[1] {
					t.Fatalf("decay %d fm %d: decoded %d as [%d,%d), encoder uses [%d,%d)",
						decay, fm, v, sym[0], sym[1], fl, fh)
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func BenchmarkEncode(b *testing.B) {
	buf := make([]byte, 4096)
	var enc rangecoding.Encoder

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		enc.Init(buf)
		for v := -8; v <= 8; v++ {
			Encode(&enc, v, 12000)
		}
		_ = enc.Done()
	}
}

func BenchmarkDecode(b *testing.B) {
	var enc rangecoding.Encoder
	enc.Init(make([]byte, 4096))
	for v := -8; v <= 8; v++ {
		Encode(&enc, v, 12000)
	}
	data := enc.Done()
	var dec rangecoding.Decoder

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dec.Init(data)
		for v := -8; v <= 8; v++ {
			Decode(&dec, 12000)
		}
	}
}
