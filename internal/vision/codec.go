package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"janken-relay-go/internal/models"
)

// Frame is a BGR raster decoded by Codec, keeping the compressed bytes it came from.
type Frame struct {
	Mat    gocv.Mat
	Source []byte
}

func (f *Frame) Width() int  { return f.Mat.Cols() }
func (f *Frame) Height() int { return f.Mat.Rows() }

func (f *Frame) Close() error {
	return f.Mat.Close()
}

// Codec converts between compressed image payloads and rasters.
type Codec struct {
	quality int
}

// NewCodec returns a JPEG codec that encodes at the given quality (1-100).
func NewCodec(quality int) *Codec {
	return &Codec{quality: quality}
}

// Decode turns compressed image bytes into a raster.
func (c *Codec) Decode(data []byte) (models.Frame, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", models.ErrFrameDecode)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFrameDecode, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: not an image (%d bytes)", models.ErrFrameDecode, len(data))
	}
	return &Frame{Mat: mat, Source: data}, nil
}

// Encode compresses a raster produced by this package as JPEG.
func (c *Codec) Encode(frame models.Frame) ([]byte, error) {
	f, ok := frame.(*Frame)
	if !ok {
		return nil, fmt.Errorf("vision: cannot encode %T", frame)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, f.Mat, []int{gocv.IMWriteJpegQuality, c.quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpeg := make([]byte, len(b))
	copy(jpeg, b)
	return jpeg, nil
}
