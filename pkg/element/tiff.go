package element

import (
	"fmt"
	"image/color"
	"os"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// readGreyTIFF loads the electron image fallback for folders that carry
// no Grey CSV, converting pixels to 8-bit grayscale intensities.
func readGreyTIFF(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	b := img.Bounds()
	out := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Set(y, x, float64(g.Y))
		}
	}
	return out, nil
}
