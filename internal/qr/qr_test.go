package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationURL(t *testing.T) {
	url, err := VerificationURL("abc123", "https://app.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/verify/abc123", url)

	url, err = VerificationURL("abc123", "https://app.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/verify/abc123", url)

	_, err = VerificationURL("abc123", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = VerificationURL("", "https://app.example.com")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)
	assert.Equal(t, 300, r.width)
	assert.Equal(t, 0, r.margin, "zero margin stays zero, config supplies the default")

	r, err = NewRenderer(Options{Margin: -3})
	require.NoError(t, err)
	assert.Equal(t, 0, r.margin)

	_, err = NewRenderer(Options{Level: "X"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRender_PNG(t *testing.T) {
	r, err := NewRenderer(Options{Level: "M", Width: 300, Margin: 1})
	require.NoError(t, err)

	b, err := r.Render("https://app.example.com/verify/abc123", FormatPNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	// quiet zone is white
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), cr&cg&cb)

	var dark int
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			red, _, _, _ := img.At(x, y).RGBA()
			if red == 0 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)
}

func TestRender_SVG(t *testing.T) {
	r, err := NewRenderer(Options{Level: "M", Width: 300, Margin: 1})
	require.NoError(t, err)

	b, err := r.Render("https://app.example.com/verify/abc123", FormatSVG)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="300"`)
	assert.Contains(t, out, "viewBox=")
	assert.Contains(t, out, "fill:#000000")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestRender_Deterministic(t *testing.T) {
	r, err := NewRenderer(Options{Margin: 1})
	require.NoError(t, err)

	a, err := r.Render("https://app.example.com/verify/abc123", FormatSVG)
	require.NoError(t, err)
	b, err := r.Render("https://app.example.com/verify/abc123", FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_TooLong(t *testing.T) {
	r, err := NewRenderer(Options{Level: "M"})
	require.NoError(t, err)

	_, err = r.Render(strings.Repeat("a", 5000), FormatPNG)
	assert.ErrorIs(t, err, apperr.ErrRender)
}

func TestDataURL(t *testing.T) {
	r, err := NewRenderer(Options{Margin: 1})
	require.NoError(t, err)

	u, err := r.DataURL("https://app.example.com/verify/abc123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "data:image/png;base64,"))
}

func TestModules_Margin(t *testing.T) {
	const content = "https://app.example.com/verify/abc123"

	bare, err := NewRenderer(Options{})
	require.NoError(t, err)
	m, err := bare.modules(content)
	require.NoError(t, err)
	assert.True(t, m[0][0], "finder pattern starts at the edge without a quiet zone")

	padded, err := NewRenderer(Options{Margin: 2})
	require.NoError(t, err)
	p, err := padded.modules(content)
	require.NoError(t, err)
	assert.Len(t, p, len(m)+4)
	for _, row := range p[:2] {
		assert.NotContains(t, row, true)
	}
	assert.True(t, p[2][2])
}
