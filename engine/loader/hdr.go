package loader

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/avrand/glint/engine/environment"
)

// Radiance HDR files store one shared exponent per pixel. A mantissa byte m
// with exponent byte e decodes to m * 2^(e-136): e-128 is the nominal
// exponent and the extra 8 normalizes the mantissa into [0, 1).
const rgbeExponentBias = 136

// decodeRadianceHDR decodes a Radiance RGBE panorama into float32 RGBA pixels.
// Both flat RGBE scanlines and the adaptive run-length encoding introduced by
// newer writers are supported. Only the standard "-Y height +X width"
// orientation is accepted.
//
// Parameters:
//   - r: the reader providing the .hdr byte stream
//
// Returns:
//   - *environment.PanoramaImage: the decoded panorama
//   - error: error if the stream is not a decodable Radiance picture
func decodeRadianceHDR(r io.Reader) (*environment.PanoramaImage, error) {
	br := bufio.NewReader(r)

	magic, err := readHDRLine(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature: %w", err)
	}
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return nil, fmt.Errorf("not a Radiance picture: signature %q", magic)
	}

	for {
		line, err := readHDRLine(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "FORMAT=") {
			format := strings.TrimPrefix(line, "FORMAT=")
			if format != "32-bit_rle_rgbe" {
				return nil, fmt.Errorf("unsupported pixel format %q", format)
			}
		}
	}

	resolution, err := readHDRLine(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution: %w", err)
	}
	fields := strings.Fields(resolution)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return nil, fmt.Errorf("unsupported resolution specifier %q", resolution)
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil || height <= 0 {
		return nil, fmt.Errorf("invalid height in resolution specifier %q", resolution)
	}
	width, err := strconv.Atoi(fields[3])
	if err != nil || width <= 0 {
		return nil, fmt.Errorf("invalid width in resolution specifier %q", resolution)
	}

	pixels := make([]float32, width*height*4)
	scanline := make([]byte, width*4)
	for y := 0; y < height; y++ {
		if err := readHDRScanline(br, scanline, width); err != nil {
			return nil, fmt.Errorf("failed to read scanline %d: %w", y, err)
		}
		for x := 0; x < width; x++ {
			rgb := decodeRGBE(scanline[x*4], scanline[x*4+1], scanline[x*4+2], scanline[x*4+3])
			i := (y*width + x) * 4
			pixels[i] = rgb[0]
			pixels[i+1] = rgb[1]
			pixels[i+2] = rgb[2]
			pixels[i+3] = 1
		}
	}

	return &environment.PanoramaImage{Width: width, Height: height, Pixels: pixels}, nil
}

// readHDRLine reads one newline-terminated header line without the terminator.
func readHDRLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

// readHDRScanline fills dst with width RGBE pixels in interleaved order.
// Adaptive RLE scanlines start with the marker 0x02 0x02 followed by the
// big-endian width and store the four components as separate run-length
// encoded streams. Anything else is flat RGBE, starting with the four bytes
// already consumed while probing for the marker.
func readHDRScanline(br *bufio.Reader, dst []byte, width int) error {
	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return err
	}

	if head[0] == 2 && head[1] == 2 && int(head[2])<<8|int(head[3]) == width && width >= 8 && width < 32768 {
		stream := make([]byte, width)
		for c := 0; c < 4; c++ {
			pos := 0
			for pos < width {
				count, err := br.ReadByte()
				if err != nil {
					return err
				}
				if count > 128 {
					// Run: the next byte repeats count-128 times.
					n := int(count) - 128
					if pos+n > width {
						return fmt.Errorf("run overflows scanline at component %d", c)
					}
					value, err := br.ReadByte()
					if err != nil {
						return err
					}
					for i := 0; i < n; i++ {
						stream[pos+i] = value
					}
					pos += n
				} else {
					n := int(count)
					if n == 0 || pos+n > width {
						return fmt.Errorf("literal overflows scanline at component %d", c)
					}
					if _, err := io.ReadFull(br, stream[pos:pos+n]); err != nil {
						return err
					}
					pos += n
				}
			}
			for x := 0; x < width; x++ {
				dst[x*4+c] = stream[x]
			}
		}
		return nil
	}

	copy(dst[:4], head[:])
	_, err := io.ReadFull(br, dst[4:width*4])
	return err
}

// decodeRGBE converts a shared-exponent pixel to linear RGB.
func decodeRGBE(r, g, b, e byte) [3]float32 {
	if e == 0 {
		return [3]float32{0, 0, 0}
	}
	scale := float32(math.Ldexp(1, int(e)-rgbeExponentBias))
	return [3]float32{float32(r) * scale, float32(g) * scale, float32(b) * scale}
}
