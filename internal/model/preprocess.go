package model

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Layout is the memory order of the input tensor
type Layout int

const (
	// LayoutNHWC is batch, height, width, channel (Keras exports)
	LayoutNHWC Layout = iota
	// LayoutNCHW is batch, channel, height, width (PyTorch exports)
	LayoutNCHW
)

func (l Layout) String() string {
	if l == LayoutNCHW {
		return "NCHW"
	}
	return "NHWC"
}

const channels = 3

// LayoutFromShape infers the tensor layout and square image size from a
// 4-D input shape such as [1,224,224,3] or [1,3,224,224].
func LayoutFromShape(shape []int64) (Layout, int, error) {
	if len(shape) != 4 {
		return 0, 0, fmt.Errorf("input shape %v: expected 4 dimensions", shape)
	}
	if shape[0] != 1 {
		return 0, 0, fmt.Errorf("input shape %v: batch dimension must be 1", shape)
	}

	switch {
	case shape[3] == channels && shape[1] == shape[2] && shape[1] > 0:
		return LayoutNHWC, int(shape[1]), nil
	case shape[1] == channels && shape[2] == shape[3] && shape[2] > 0:
		return LayoutNCHW, int(shape[2]), nil
	default:
		return 0, 0, fmt.Errorf("input shape %v: expected a square 3-channel image", shape)
	}
}

// ParseFilter maps a resampling name to an nfnt/resize interpolation
func ParseFilter(name string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "", "bicubic":
		return resize.Bicubic, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	default:
		return 0, fmt.Errorf("unknown resample filter %q", name)
	}
}

// DecodeImage decodes any registered format (JPEG, PNG, GIF, BMP, WebP)
func DecodeImage(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// Preprocessor turns decoded images into model input tensors
type Preprocessor struct {
	Size   int
	Layout Layout
	Filter resize.InterpolationFunction
}

// Len is the number of float32 values in one tensor
func (p Preprocessor) Len() int {
	return channels * p.Size * p.Size
}

// Tensor converts img to RGB, resizes it to Size x Size and scales every
// channel to [0,1]. The result already includes the batch dimension of 1.
func (p Preprocessor) Tensor(img image.Image) []float32 {
	out := make([]float32, p.Len())
	p.fill(out, img)
	return out
}

func (p Preprocessor) fill(out []float32, img image.Image) {
	size := uint(p.Size)
	resized := resize.Resize(size, size, toRGB(img), p.Filter)

	rgba, ok := resized.(*image.RGBA)
	if !ok {
		rgba = toRGB(resized)
	}

	b := rgba.Bounds()
	width, height := b.Dx(), b.Dy()
	plane := width * height

	for y := 0; y < height; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < width; x++ {
			px := row[x*4 : x*4+3]
			r := float32(px[0]) / 255.0
			g := float32(px[1]) / 255.0
			bl := float32(px[2]) / 255.0

			pixelIndex := y*width + x
			if p.Layout == LayoutNCHW {
				out[pixelIndex] = r
				out[plane+pixelIndex] = g
				out[2*plane+pixelIndex] = bl
			} else {
				out[pixelIndex*channels] = r
				out[pixelIndex*channels+1] = g
				out[pixelIndex*channels+2] = bl
			}
		}
	}
}

// toRGB copies img into an opaque RGBA image anchored at (0,0). Alpha is
// dropped without compositing, so fully transparent pixels keep their color.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}
