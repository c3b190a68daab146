package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(encodedImage(t, 10, 10, imaging.PNG)))
	assert.NoError(t, p.ValidateImage(encodedImage(t, 10, 10, imaging.JPEG)))

	assert.Error(t, p.ValidateImage([]byte("definitely not an image")))

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black}), nil))
	err := p.ValidateImage(gifBuf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gif")

	small := &ImageProcessor{MaxSize: 10}
	assert.Error(t, small.ValidateImage(encodedImage(t, 10, 10, imaging.PNG)))
}

func TestProcessImage_Variants(t *testing.T) {
	p := NewImageProcessor()

	variants, err := p.ProcessImage(encodedImage(t, 800, 400, imaging.PNG))
	require.NoError(t, err)
	require.Len(t, variants, len(CoverVariants))

	want := map[string]image.Point{
		"large":     {800, 400},
		"medium":    {600, 300},
		"thumbnail": {300, 150},
	}
	for name, size := range want {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(variants[name]))
		require.NoError(t, err, name)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, size, image.Point{cfg.Width, cfg.Height}, name)
	}
}

func TestToJPEG(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.ToJPEG(encodedImage(t, 20, 10, imaging.PNG))
	require.NoError(t, err)

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://cdn.local/realestate/blog/1/original.jpg",
		ObjectURL("http://cdn.local/", "realestate", "/blog/1/original.jpg"))
}
