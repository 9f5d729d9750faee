package onnx

import (
	"errors"
	"fmt"
)

// Tensor represents an image tensor prepared for ONNX input.
// Data layout is row-major NHWC. Exactly one of Floats or Bytes is
// populated, depending on the model's input element type.
type Tensor struct {
	Floats []float32
	Bytes  []uint8
	Shape  []int64 // e.g., [N, H, W, C]
}

// IsQuantized reports whether the tensor carries raw 8-bit data.
func (t Tensor) IsQuantized() bool { return t.Bytes != nil }

// NewImageTensor builds a single-image float tensor with shape [1, H, W, C].
// data must be length H*W*C in NHWC order.
func NewImageTensor(data []float32, h, w, c int) (Tensor, error) {
	if data == nil {
		return Tensor{}, errors.New("nil data")
	}
	expected := h * w * c
	if len(data) != expected {
		return Tensor{}, fmt.Errorf("unexpected data length: got %d, want %d", len(data), expected)
	}
	shape := []int64{1, int64(h), int64(w), int64(c)}
	return Tensor{Floats: data, Shape: shape}, nil
}

// NewQuantizedImageTensor builds a single-image uint8 tensor with shape [1, H, W, C].
func NewQuantizedImageTensor(data []uint8, h, w, c int) (Tensor, error) {
	if data == nil {
		return Tensor{}, errors.New("nil data")
	}
	expected := h * w * c
	if len(data) != expected {
		return Tensor{}, fmt.Errorf("unexpected data length: got %d, want %d", len(data), expected)
	}
	shape := []int64{1, int64(h), int64(w), int64(c)}
	return Tensor{Bytes: data, Shape: shape}, nil
}

// ValidateNHWC ensures a shape is [N, H, W, C] with positive dimensions.
func ValidateNHWC(shape []int64) error {
	if len(shape) != 4 {
		return fmt.Errorf("shape rank %d != 4", len(shape))
	}
	for i, v := range shape {
		if v <= 0 {
			return fmt.Errorf("dimension %d must be > 0, got %d", i, v)
		}
	}
	return nil
}

// VerifyImageTensor checks data length matches the provided NHWC shape.
func VerifyImageTensor(t Tensor) error {
	if err := ValidateNHWC(t.Shape); err != nil {
		return err
	}
	n, h, w, c := t.Shape[0], t.Shape[1], t.Shape[2], t.Shape[3]
	expected := int(n * h * w * c)
	if t.IsQuantized() {
		if len(t.Bytes) != expected {
			return fmt.Errorf("tensor data length %d != expected %d for shape %v", len(t.Bytes), expected, t.Shape)
		}
		return nil
	}
	if len(t.Floats) != expected {
		return fmt.Errorf("tensor data length %d != expected %d for shape %v", len(t.Floats), expected, t.Shape)
	}
	return nil
}

// TensorStats computes simple statistics for debug output.
func TensorStats(data []float32) (float32, float32, float32) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	var minVal, maxVal, mean float32
	minVal, maxVal = data[0], data[0]
	var sum float64
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		sum += float64(v)
	}
	mean = float32(sum / float64(len(data)))
	return minVal, maxVal, mean
}
