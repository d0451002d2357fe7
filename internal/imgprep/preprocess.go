package imgprep

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sort"

	"github.com/disintegration/imaging"
)

func colorGray(v uint8) color.Gray { return color.Gray{Y: v} }

// Config tunes the preprocessing chain. Zero values select defaults that work
// for both phone photos and clean scans.
type Config struct {
	WindowRadius int     // adaptive threshold neighborhood radius; 5 gives an 11x11 window
	Bias         int     // subtracted from the local mean before comparing
	Contrast     float64 // percentage boost on the final image
	SharpenSigma float64
}

// Preprocessor normalizes a raster page for OCR. Preprocess is deterministic
// and side-effect-free; running it twice on the same input yields the same
// output.
type Preprocessor struct {
	cfg    Config
	logger *slog.Logger
}

func NewPreprocessor(cfg Config, logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WindowRadius <= 0 {
		cfg.WindowRadius = 5
	}
	if cfg.Bias == 0 {
		cfg.Bias = 2
	}
	if cfg.Contrast == 0 {
		cfg.Contrast = 50
	}
	if cfg.SharpenSigma == 0 {
		cfg.SharpenSigma = 1.0
	}
	return &Preprocessor{cfg: cfg, logger: logger}
}

// Preprocess runs the fixed chain: grayscale, median denoise, adaptive local
// thresholding, morphological closing, then contrast and sharpness boost.
// Orientation correction happens earlier, at decode time, because the EXIF
// tag lives with the encoded bytes.
func (p *Preprocessor) Preprocess(img image.Image) image.Image {
	gray := toGray(img)
	den := medianFilter3(gray)
	bin := adaptiveThreshold(den, p.cfg.WindowRadius, p.cfg.Bias)
	closed := closeStrokes(bin)

	out := imaging.AdjustContrast(closed, p.cfg.Contrast)
	out = imaging.Sharpen(out, p.cfg.SharpenSigma)

	b := img.Bounds()
	p.logger.Debug("imgprep.preprocess.ok", "width", b.Dx(), "height", b.Dy())
	return out
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// medianFilter3 applies a 3x3 median filter. Salt-and-pepper speckle from
// scanners and phone sensors disappears while character edges survive.
func medianFilter3(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	var window [9]uint8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xx, yy := x+dx, y+dy
					if xx < 0 || yy < 0 || xx >= w || yy >= h {
						continue
					}
					window[n] = src.GrayAt(xx, yy).Y
					n++
				}
			}
			s := window[:n]
			sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
			dst.SetGray(x, y, colorGray(s[n/2]))
		}
	}
	return dst
}

// adaptiveThreshold binarizes against the local mean rather than a single
// global threshold, so text separates cleanly even under the uneven lighting
// of a phone photo. A pixel lighter than (local mean - bias) becomes white,
// everything else black. Uses a summed-area table so the window size does not
// affect cost.
func adaptiveThreshold(src *image.Gray, radius, bias int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)

	integral := make([]uint64, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		var row uint64
		for x := 0; x < w; x++ {
			row += uint64(src.GrayAt(x, y).Y)
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + row
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-radius), max(0, y-radius)
			x1, y1 := min(w-1, x+radius), min(h-1, y+radius)
			count := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*stride+x1+1] - integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] + integral[y0*stride+x0]
			mean := int(sum / count)
			if int(src.GrayAt(x, y).Y) > mean-bias {
				dst.SetGray(x, y, colorGray(255))
			} else {
				dst.SetGray(x, y, colorGray(0))
			}
		}
	}
	return dst
}

// closeStrokes runs a 3x3 morphological closing on the dark foreground
// (erode the white background, then dilate it back), reconnecting character
// strokes the thresholding broke apart.
func closeStrokes(src *image.Gray) *image.Gray {
	return rankFilter3(rankFilter3(src, minRank), maxRank)
}

type rank int

const (
	minRank rank = iota
	maxRank
)

func rankFilter3(src *image.Gray, r rank) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best uint8
			if r == minRank {
				best = 255
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xx, yy := x+dx, y+dy
					if xx < 0 || yy < 0 || xx >= w || yy >= h {
						continue
					}
					v := src.GrayAt(xx, yy).Y
					if (r == minRank && v < best) || (r == maxRank && v > best) {
						best = v
					}
				}
			}
			dst.SetGray(x, y, colorGray(best))
		}
	}
	return dst
}
