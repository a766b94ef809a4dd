package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ProcessedImage is a catalog image ready for storage
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Processor downscales uploaded item images before they hit storage
type Processor struct {
	maxWidth int
	quality  int
}

// NewProcessor creates an image processor
func NewProcessor(maxWidth int) *Processor {
	if maxWidth <= 0 {
		maxWidth = 1280
	}
	return &Processor{maxWidth: maxWidth, quality: 85}
}

// Process decodes an image, fits it inside the max width and re-encodes it
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	contentType := "image/jpeg"
	switch format {
	case "png":
		contentType = "image/png"
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

// Ext returns the file extension for a processed image
func (p *ProcessedImage) Ext() string {
	if p.ContentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
