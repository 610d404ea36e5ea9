package intro

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"introsplice/internal/services"
)

// PaddingColor names the solid background behind the scaled image.
type PaddingColor string

const (
	ColorBlack   PaddingColor = "black"
	ColorWhite   PaddingColor = "white"
	ColorRed     PaddingColor = "red"
	ColorGreen   PaddingColor = "green"
	ColorBlue    PaddingColor = "blue"
	ColorYellow  PaddingColor = "yellow"
	ColorMagenta PaddingColor = "magenta"
	ColorCyan    PaddingColor = "cyan"
)

var paddingColorOrder = []PaddingColor{
	ColorBlack, ColorWhite, ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorMagenta, ColorCyan,
}

var paddingColorValues = map[PaddingColor]color.NRGBA{
	ColorBlack:   {R: 0, G: 0, B: 0, A: 255},
	ColorWhite:   {R: 255, G: 255, B: 255, A: 255},
	ColorRed:     {R: 255, G: 0, B: 0, A: 255},
	ColorGreen:   {R: 0, G: 255, B: 0, A: 255},
	ColorBlue:    {R: 0, G: 0, B: 255, A: 255},
	ColorYellow:  {R: 255, G: 255, B: 0, A: 255},
	ColorMagenta: {R: 255, G: 0, B: 255, A: 255},
	ColorCyan:    {R: 0, G: 255, B: 255, A: 255},
}

// PaddingColors lists the supported colors in display order.
func PaddingColors() []PaddingColor {
	return append([]PaddingColor(nil), paddingColorOrder...)
}

// ParsePaddingColor resolves a case-insensitive color name.
func ParsePaddingColor(name string) (PaddingColor, error) {
	c := PaddingColor(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := paddingColorValues[c]; !ok {
		return "", &InvalidParameterError{Name: "padding color", Value: name, Reason: "expected one of " + joinNames(paddingColorOrder)}
	}
	return c, nil
}

// RGBA returns the opaque color value. Names match case-insensitively;
// unknown names resolve to black.
func (c PaddingColor) RGBA() color.NRGBA {
	if v, ok := paddingColorValues[PaddingColor(strings.ToLower(strings.TrimSpace(string(c))))]; ok {
		return v
	}
	return paddingColorValues[ColorBlack]
}

// Hex renders the color as an ffmpeg 0xRRGGBB literal.
func (c PaddingColor) Hex() string {
	v := c.RGBA()
	return fmt.Sprintf("0x%02X%02X%02X", v.R, v.G, v.B)
}

// PaddedImage describes the letterboxed intro frame written to disk.
type PaddedImage struct {
	Path    string
	Width   int
	Height  int
	Content image.Rectangle
	Scale   float64
}

// FitDimensions computes the contain-fit of a sw x sh source inside tw x th.
// The scale may enlarge the source. Content dimensions are truncated and kept
// within [1, target] on each axis.
func FitDimensions(sw, sh, tw, th int) (float64, int, int) {
	if sw <= 0 || sh <= 0 || tw <= 0 || th <= 0 {
		return 0, 0, 0
	}
	scale := min(float64(tw)/float64(sw), float64(th)/float64(sh))
	w := clampDim(int(float64(sw)*scale), tw)
	h := clampDim(int(float64(sh)*scale), th)
	return scale, w, h
}

func clampDim(v, limit int) int {
	return max(1, min(v, limit))
}

// PadImage scales src to fit inside targetW x targetH, centers it on a canvas
// of the padding color, and writes the opaque result to dst as PNG.
func PadImage(src, dst string, targetW, targetH int, fill PaddingColor) (PaddedImage, error) {
	if targetW <= 0 || targetH <= 0 {
		return PaddedImage{}, &InvalidParameterError{Name: "target size", Value: fmt.Sprintf("%dx%d", targetW, targetH), Reason: "must be positive"}
	}
	img, err := decodeImage(src)
	if err != nil {
		return PaddedImage{}, services.Wrap(services.ErrValidation, string(StagePad), "decode image", src, err)
	}

	composed, padded := composeOnCanvas(img, targetW, targetH, fill)
	padded.Path = dst

	if err := imaging.Save(composed, dst); err != nil {
		return PaddedImage{}, services.Wrap(services.ErrTransient, string(StagePad), "write padded image", dst, err)
	}
	return padded, nil
}

func composeOnCanvas(img image.Image, targetW, targetH int, fill PaddingColor) (*image.NRGBA, PaddedImage) {
	bounds := img.Bounds()
	scale, w, h := FitDimensions(bounds.Dx(), bounds.Dy(), targetW, targetH)

	content := img
	if w != bounds.Dx() || h != bounds.Dy() {
		content = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	offset := image.Pt((targetW-w)/2, (targetH-h)/2)
	canvas := imaging.New(targetW, targetH, fill.RGBA())
	composed := imaging.Overlay(canvas, content, offset, 1.0)
	flatten(composed)

	return composed, PaddedImage{
		Width:   targetW,
		Height:  targetH,
		Content: image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))},
		Scale:   scale,
	}
}

// flatten forces every pixel opaque so encoders never see an alpha channel.
func flatten(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}

func decodeImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return webp.Decode(f)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}

func joinNames[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
