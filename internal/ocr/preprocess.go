package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// preprocess normalises a page image before recognition: grayscale, contrast
// stretch, sharpen. Orientation correction happens at decode time for photo
// uploads; rasterised PDF pages are already upright.
func preprocess(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	gray = stretchContrast(gray)
	return imaging.Sharpen(gray, 1.0)
}

// stretchContrast rescales pixel intensities so the darkest pixel maps to 0
// and the brightest to 255. On a grayscale NRGBA image all three color
// channels carry the same value.
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()

	lo, hi := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	if hi <= lo {
		return img
	}

	span := int(hi) - int(lo)
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := out.NRGBAAt(x, y)
			v := uint8((int(px.R) - int(lo)) * 255 / span)
			px.R, px.G, px.B = v, v, v
			out.SetNRGBA(x, y, px)
		}
	}

	return out
}
