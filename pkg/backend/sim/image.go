package sim

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
)

// renderFrame draws a gradient test card with a bar that moves with n.
func renderFrame(w, h, n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bar := (n * 4) % w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y + n) % 256),
				A: 0xff,
			}
			if x >= bar && x < bar+8 {
				c = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJPEG(w, h, n int) ([]byte, error) {
	return encodeJPEG(renderFrame(w, h, n))
}

// computeHistograms returns luminance, red, green and blue histograms in
// the driver wire format.
func computeHistograms(img *image.RGBA) [4][]byte {
	var counts [4][backend.HistogramBuckets]uint32

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			lum := (299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000
			counts[backend.HistogramLuminance][lum]++
			counts[backend.HistogramRed][c.R]++
			counts[backend.HistogramGreen][c.G]++
			counts[backend.HistogramBlue][c.B]++
		}
	}

	var out [4][]byte
	for ch := range counts {
		buf := make([]byte, 4*backend.HistogramBuckets)
		for i, v := range counts[ch] {
			binary.LittleEndian.PutUint32(buf[4*i:], v)
		}
		out[ch] = buf
	}
	return out
}
