package detector

import (
	"fmt"
	"image"

	"github.com/marlin-vision/marlin/internal/meta"
	"github.com/marlin-vision/marlin/internal/onnx"
	"github.com/marlin-vision/marlin/internal/utils"
)

// preprocess prepares an image for inference: resize to the model's fixed
// input size, normalize when the model is float, add the leading batch
// dimension. Quantized models receive raw 8-bit values unchanged.
func preprocess(img image.Image, mio modelIO, md *meta.Metadata) (onnx.Tensor, error) {
	resized, err := utils.ResizeTo(img, mio.width, mio.height)
	if err != nil {
		return onnx.Tensor{}, fmt.Errorf("failed to resize image: %w", err)
	}
	rgba := utils.ToRGBA(resized)

	if mio.quantized {
		data := packNHWCBytes(rgba, mio.width, mio.height)
		tensor, err := onnx.NewQuantizedImageTensor(data, mio.height, mio.width, mio.channels)
		if err != nil {
			return onnx.Tensor{}, fmt.Errorf("failed to create tensor: %w", err)
		}
		return tensor, nil
	}

	data := packNHWCFloats(rgba, mio.width, mio.height, md.Mean, md.Std)
	tensor, err := onnx.NewImageTensor(data, mio.height, mio.width, mio.channels)
	if err != nil {
		return onnx.Tensor{}, fmt.Errorf("failed to create tensor: %w", err)
	}
	return tensor, nil
}

// packNHWCBytes flattens RGB pixels into HWC order, dropping alpha.
func packNHWCBytes(rgba *image.RGBA, width, height int) []uint8 {
	data := make([]uint8, height*width*3)
	i := 0
	for y := range height {
		off := y * rgba.Stride
		for x := range width {
			p := off + x*4
			data[i] = rgba.Pix[p]
			data[i+1] = rgba.Pix[p+1]
			data[i+2] = rgba.Pix[p+2]
			i += 3
		}
	}
	return data
}

// packNHWCFloats flattens RGB pixels into HWC order applying
// (pixel - mean) / std elementwise.
func packNHWCFloats(rgba *image.RGBA, width, height int, mean, std float32) []float32 {
	if std == 0 {
		std = 1
	}
	data := make([]float32, height*width*3)
	i := 0
	for y := range height {
		off := y * rgba.Stride
		for x := range width {
			p := off + x*4
			data[i] = (float32(rgba.Pix[p]) - mean) / std
			data[i+1] = (float32(rgba.Pix[p+1]) - mean) / std
			data[i+2] = (float32(rgba.Pix[p+2]) - mean) / std
			i += 3
		}
	}
	return data
}
