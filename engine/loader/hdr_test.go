package loader

import (
	"bytes"
	"fmt"
	"math"
	"testing"
)

// flatHDR encodes a flat (non-RLE) Radiance picture where every pixel is the
// given RGBE tuple.
func flatHDR(width, height int, r, g, b, e byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "-Y %d +X %d\n", height, width)
	for i := 0; i < width*height; i++ {
		buf.Write([]byte{r, g, b, e})
	}
	return buf.Bytes()
}

// rleHDR encodes a Radiance picture using adaptive RLE with one full-width
// run per component per scanline.
func rleHDR(width, height int, r, g, b, e byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "-Y %d +X %d\n", height, width)
	for y := 0; y < height; y++ {
		buf.Write([]byte{2, 2, byte(width >> 8), byte(width & 0xFF)})
		for _, value := range []byte{r, g, b, e} {
			remaining := width
			for remaining > 0 {
				run := remaining
				if run > 127 {
					run = 127
				}
				buf.Write([]byte{byte(128 + run), value})
				remaining -= run
			}
		}
	}
	return buf.Bytes()
}

func TestDecodeRadianceFlat(t *testing.T) {
	// Mantissa 128 with exponent 129 decodes to 128 * 2^(129-136) = 1.0.
	data := flatHDR(4, 2, 128, 64, 32, 129)

	img, err := decodeRadianceHDR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Width != 4 || img.Height != 2 {
		t.Fatalf("decoded %dx%d, want 4x2", img.Width, img.Height)
	}
	if len(img.Pixels) != 4*2*4 {
		t.Fatalf("pixel buffer holds %d floats, want %d", len(img.Pixels), 4*2*4)
	}

	want := [4]float32{1.0, 0.5, 0.25, 1.0}
	for i := 0; i < 4; i++ {
		if math.Abs(float64(img.Pixels[i]-want[i])) > 1e-6 {
			t.Errorf("component %d = %v, want %v", i, img.Pixels[i], want[i])
		}
	}
}

func TestDecodeRadianceRLE(t *testing.T) {
	data := rleHDR(16, 3, 128, 128, 128, 130)

	img, err := decodeRadianceHDR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Width != 16 || img.Height != 3 {
		t.Fatalf("decoded %dx%d, want 16x3", img.Width, img.Height)
	}

	// 128 * 2^(130-136) = 2.0 for every component of every pixel.
	for i := 0; i < len(img.Pixels); i += 4 {
		for c := 0; c < 3; c++ {
			if img.Pixels[i+c] != 2.0 {
				t.Fatalf("pixel %d component %d = %v, want 2.0", i/4, c, img.Pixels[i+c])
			}
		}
		if img.Pixels[i+3] != 1.0 {
			t.Fatalf("pixel %d alpha = %v, want 1.0", i/4, img.Pixels[i+3])
		}
	}
}

func TestDecodeRadianceRLELiteralRuns(t *testing.T) {
	width := 8
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n\n")
	fmt.Fprintf(&buf, "-Y 1 +X %d\n", width)
	buf.Write([]byte{2, 2, 0, byte(width)})
	// Red channel: 8 literal bytes. Remaining channels: one run each.
	buf.Write([]byte{8, 10, 20, 30, 40, 50, 60, 70, 80})
	buf.Write([]byte{128 + 8, 0})
	buf.Write([]byte{128 + 8, 0})
	buf.Write([]byte{128 + 8, 136})

	img, err := decodeRadianceHDR(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Exponent 136 gives scale 1: red equals its mantissa byte.
	for x := 0; x < width; x++ {
		want := float32(10 * (x + 1))
		if img.Pixels[x*4] != want {
			t.Errorf("pixel %d red = %v, want %v", x, img.Pixels[x*4], want)
		}
		if img.Pixels[x*4+1] != 0 || img.Pixels[x*4+2] != 0 {
			t.Errorf("pixel %d green/blue should be zero", x)
		}
	}
}

func TestDecodeRadianceZeroExponentIsBlack(t *testing.T) {
	data := flatHDR(4, 1, 255, 255, 255, 0)

	img, err := decodeRadianceHDR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		base := i * 4
		if img.Pixels[base] != 0 || img.Pixels[base+1] != 0 || img.Pixels[base+2] != 0 {
			t.Fatalf("pixel %d should be black", i)
		}
	}
}

func TestDecodeRadianceRejectsBadSignature(t *testing.T) {
	data := []byte("#?NOTRADIANCE\n\n-Y 1 +X 1\n")
	if _, err := decodeRadianceHDR(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for a bad signature")
	}
}

func TestDecodeRadianceRejectsUnsupportedOrientation(t *testing.T) {
	data := []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n+Y 1 +X 1\n")
	if _, err := decodeRadianceHDR(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for a flipped orientation")
	}
}

func TestDecodeRadianceRejectsUnsupportedFormat(t *testing.T) {
	data := []byte("#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n")
	if _, err := decodeRadianceHDR(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for the XYZE format")
	}
}
