package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Variant is one resized rendition of a cover image.
type Variant struct {
	Name string
	Size int // bounding box edge in pixels
}

// CoverVariants are produced by the blog:process_cover task.
var CoverVariants = []Variant{
	{Name: "large", Size: 1200},
	{Name: "medium", Size: 600},
	{Name: "thumbnail", Size: 300},
}

const jpegQuality = 90

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024}
}

// ValidateImage accepts JPEG and PNG files up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ToJPEG re-encodes an uploaded image so originals are always stored as JPEG.
func (p *ImageProcessor) ToJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	return encodeJPEG(img)
}

// ProcessImage returns variant name -> JPEG bytes. Images are fitted inside
// each bounding box and never upscaled.
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(CoverVariants))
	for _, v := range CoverVariants {
		encoded, err := encodeJPEG(imaging.Fit(img, v.Size, v.Size, imaging.Lanczos))
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", v.Name, err)
		}
		variants[v.Name] = encoded
	}
	return variants, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := imaging.Encode(b, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
