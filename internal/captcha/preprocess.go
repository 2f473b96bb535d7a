package captcha

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

const (
	// luminance strictly above the threshold becomes white, everything else black
	binarizeThreshold = 150
	upscaleFactor     = 2
)

// Binarize converts img to a black and white grayscale image with bounds starting at (0, 0).
func Binarize(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			lum := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			if lum > binarizeThreshold {
				out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// Upscale scales img by upscaleFactor with bilinear interpolation.
func Upscale(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*upscaleFactor, b.Dy()*upscaleFactor))
	draw.BiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

// Preprocess decodes an encoded challenge image and returns the PNG the recognizer reads.
func Preprocess(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode challenge image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("challenge image is empty")
	}

	processed := Upscale(Binarize(img))

	var buf bytes.Buffer
	err = png.Encode(&buf, processed)
	if err != nil {
		return nil, fmt.Errorf("encode processed image: %w", err)
	}
	return buf.Bytes(), nil
}
