package classify

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

// The model was trained on 150x150 single-channel crops, so the
// input tensor is always (1, ImageSize, ImageSize, 1).
const (
	ImageSize = 150
	TensorLen = 1 * ImageSize * ImageSize * 1
)

// ErrDecode wraps any failure to decode the uploaded bytes.
var ErrDecode = fmt.Errorf("failed to decode image")

// Preprocess converts an uploaded image into the flat float32 tensor
// the model expects: grayscale, resized to exactly 150x150 (aspect
// ratio is not preserved, matching the training pipeline), scaled to
// [0,1] by dividing the 8-bit values by 255. No mean/std
// normalization is applied.
func Preprocess(r io.Reader) ([]float32, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	gray := toGray(img)
	resized := resize.Resize(ImageSize, ImageSize, gray, resize.Lanczos3)

	data := make([]float32, 0, TensorLen)
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			g := color.GrayModel.Convert(resized.At(x, y)).(color.Gray)
			data = append(data, float32(g.Y)/255.0)
		}
	}

	return data, nil
}

// toGray drops color channels using the standard luminance weights.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}
