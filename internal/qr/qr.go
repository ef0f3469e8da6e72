package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/skip2/go-qrcode"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" (also the default for "") and "svg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: unsupported qr format %q", apperr.ErrValidation, s)
	}
}

// ContentType returns the MIME type of a rendered format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// VerificationURL builds the public link a QR code points at.
func VerificationURL(token, baseURL string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: verification token is required", apperr.ErrValidation)
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", fmt.Errorf("%w: base url could not be resolved", apperr.ErrValidation)
	}
	return base + "/verify/" + token, nil
}

// Options controls rendering. An empty Level means M and a zero Width
// means 300px. Margin is the quiet zone in modules; zero renders none.
type Options struct {
	Level  string
	Width  int
	Margin int
}

type Renderer struct {
	level  qrcode.RecoveryLevel
	width  int
	margin int
}

var levels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Level == "" {
		opts.Level = "M"
	}
	level, ok := levels[strings.ToUpper(opts.Level)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown error correction level %q", apperr.ErrValidation, opts.Level)
	}
	if opts.Width <= 0 {
		opts.Width = 300
	}
	opts.Margin = max(opts.Margin, 0)
	return &Renderer{level: level, width: opts.Width, margin: opts.Margin}, nil
}

// Render encodes content as a QR symbol in the given format.
func (r *Renderer) Render(content string, format Format) ([]byte, error) {
	modules, err := r.modules(content)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPNG, "":
		return r.png(modules)
	case FormatSVG:
		return r.svg(modules), nil
	default:
		return nil, fmt.Errorf("%w: unsupported qr format %q", apperr.ErrValidation, format)
	}
}

// DataURL renders a PNG and returns it as a data: URL for direct embedding.
func (r *Renderer) DataURL(content string) (string, error) {
	b, err := r.Render(content, FormatPNG)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), nil
}

// modules returns the symbol including the quiet zone; true is a dark module.
func (r *Renderer) modules(content string) ([][]bool, error) {
	code, err := qrcode.New(content, r.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRender, err)
	}
	code.DisableBorder = true

	symbol := code.Bitmap()
	size := len(symbol) + 2*r.margin

	out := make([][]bool, size)
	for y := range out {
		out[y] = make([]bool, size)
	}
	for y, row := range symbol {
		for x, dark := range row {
			out[y+r.margin][x+r.margin] = dark
		}
	}
	return out, nil
}

// png scales the symbol to the configured width. Modules are whole pixels,
// any leftover space is split evenly around the symbol.
func (r *Renderer) png(modules [][]bool) ([]byte, error) {
	n := len(modules)
	scale := r.width / n
	if scale < 1 {
		scale = 1
	}
	size := max(r.width, n*scale)
	offset := (size - n*scale) / 2

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{color.White, color.Black})
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(offset+x*scale+dx, offset+y*scale+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", apperr.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// svg draws one rect per horizontal run of dark modules in module units.
func (r *Renderer) svg(modules [][]bool) []byte {
	n := len(modules)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.width, r.width,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, n, n),
		`shape-rendering="crispEdges"`)
	canvas.Rect(0, 0, n, n, "fill:#FFFFFF")

	for y, row := range modules {
		for x := 0; x < n; {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < n && row[x] {
				x++
			}
			canvas.Rect(start, y, x-start, 1, "fill:#000000")
		}
	}

	canvas.End()
	return buf.Bytes()
}
