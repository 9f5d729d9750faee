package detector

import (
	"fmt"
	"os"

	"github.com/marlin-vision/marlin/internal/onnx"
	"github.com/yalue/onnxruntime_go"
)

// Fixed positional output convention of the marine detection model family,
// assigned over ascending raw output index. This ordering is an external
// contract of the model family and must be preserved verbatim.
const (
	outLocations = iota
	outClasses
	outScores
	outCount
	outputCount
)

// RawOutputs holds the decoded-from-tensor model outputs, indexed by the
// positional convention above rather than by output name.
type RawOutputs struct {
	Locations []float32 // flattened boxes, [yMin,xMin,yMax,xMax] each in [0,1]
	Classes   []float32
	Scores    []float32
	Count     int
}

// Engine executes the detection network. Implementations are selected once
// at construction; Run is synchronous and blocking with no cancellation.
type Engine interface {
	Run(t onnx.Tensor) (*RawOutputs, error)
	Close() error
}

// modelIO captures the validated input/output signature of the model.
type modelIO struct {
	input     onnxruntime_go.InputOutputInfo
	outputs   []onnxruntime_go.InputOutputInfo
	width     int
	height    int
	channels  int
	quantized bool
}

// inspectModel reads and validates the model's input/output signature.
func inspectModel(modelPath string) (modelIO, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return modelIO{}, fmt.Errorf("failed to get model input/output info: %w", err)
	}

	if len(inputs) != 1 {
		return modelIO{}, &ModelShapeError{Path: modelPath,
			Reason: fmt.Sprintf("expected 1 input tensor, got %d", len(inputs))}
	}
	if len(outputs) != outputCount {
		return modelIO{}, &ModelShapeError{Path: modelPath,
			Reason: fmt.Sprintf("expected %d output tensors, got %d", outputCount, len(outputs))}
	}

	dims := inputs[0].Dimensions
	if len(dims) != 4 {
		return modelIO{}, &ModelShapeError{Path: modelPath,
			Reason: fmt.Sprintf("input tensor rank %d != 4", len(dims))}
	}
	h, w, c := dims[1], dims[2], dims[3]
	if h <= 0 || w <= 0 {
		return modelIO{}, &ModelShapeError{Path: modelPath,
			Reason: fmt.Sprintf("input spatial dimensions must be fixed, got %dx%d", w, h)}
	}
	if c != 3 {
		return modelIO{}, &ModelShapeError{Path: modelPath,
			Reason: fmt.Sprintf("expected 3 input channels, got %d", c)}
	}

	return modelIO{
		input:     inputs[0],
		outputs:   outputs,
		width:     int(w),
		height:    int(h),
		channels:  int(c),
		quantized: inputs[0].DataType == onnxruntime_go.TensorElementDataTypeUint8,
	}, nil
}

// ortEngine is the shared ONNX Runtime session wrapper behind both engines.
type ortEngine struct {
	session *onnxruntime_go.DynamicAdvancedSession
	io      modelIO
}

// cpuEngine executes inference on the CPU execution provider.
type cpuEngine struct{ ortEngine }

// cudaEngine executes inference with the CUDA execution provider appended.
type cudaEngine struct{ ortEngine }

// newEngine builds the engine matching the configuration. GPU setup failure
// is fatal; there is no silent CPU fallback.
func newEngine(modelPath string, mio modelIO, config Config) (Engine, error) {
	if err := setupONNXEnvironment(config.GPU.UseGPU); err != nil {
		return nil, err
	}

	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy session options: %v\n", err)
		}
	}()

	if config.NumThreads > 0 {
		// Thread count is a passthrough hint for the runtime, not a contract.
		if err := sessionOptions.SetIntraOpNumThreads(config.NumThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	if config.GPU.UseGPU {
		if err := onnx.ConfigureSessionForGPU(sessionOptions, config.GPU); err != nil {
			return nil, &UnsupportedAcceleratorError{Err: err}
		}
		session, err := createSession(modelPath, mio, sessionOptions)
		if err != nil {
			return nil, err
		}
		return &cudaEngine{ortEngine{session: session, io: mio}}, nil
	}

	session, err := createSession(modelPath, mio, sessionOptions)
	if err != nil {
		return nil, err
	}
	return &cpuEngine{ortEngine{session: session, io: mio}}, nil
}

// setupONNXEnvironment sets up the ONNX Runtime environment.
func setupONNXEnvironment(useGPU bool) error {
	if err := onnx.SetONNXLibraryPath(useGPU); err != nil {
		return fmt.Errorf("failed to set ONNX Runtime library path: %w", err)
	}

	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	}
	return nil
}

// createSession creates the ONNX session over all four declared outputs.
func createSession(modelPath string, mio modelIO,
	sessionOptions *onnxruntime_go.SessionOptions,
) (*onnxruntime_go.DynamicAdvancedSession, error) {
	outputNames := make([]string, len(mio.outputs))
	for i, o := range mio.outputs {
		outputNames[i] = o.Name
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(modelPath,
		[]string{mio.input.Name}, outputNames, sessionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return session, nil
}

// verifyInput checks the tensor against the declared model input.
func (e *ortEngine) verifyInput(t onnx.Tensor) error {
	if err := onnx.VerifyImageTensor(t); err != nil {
		return fmt.Errorf("invalid tensor: %w", err)
	}
	want := e.io.input.Dimensions
	if len(t.Shape) != len(want) {
		return &ShapeMismatchError{Got: t.Shape, Want: want}
	}
	for i := range want {
		if want[i] > 0 && t.Shape[i] != want[i] {
			return &ShapeMismatchError{Got: t.Shape, Want: want}
		}
	}
	if t.IsQuantized() != e.io.quantized {
		return &ShapeMismatchError{Got: t.Shape, Want: want,
			Reason: "tensor element type does not match model input"}
	}
	return nil
}

// Run executes the network and unpacks the four outputs by position.
func (e *ortEngine) Run(t onnx.Tensor) (*RawOutputs, error) {
	if err := e.verifyInput(t); err != nil {
		return nil, err
	}

	var input onnxruntime_go.Value
	var err error
	if t.IsQuantized() {
		input, err = onnxruntime_go.NewTensor(onnxruntime_go.NewShape(t.Shape...), t.Bytes)
	} else {
		input, err = onnxruntime_go.NewTensor(onnxruntime_go.NewShape(t.Shape...), t.Floats)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := input.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	// ONNX Runtime allocates output tensors for nil entries.
	outputs := make([]onnxruntime_go.Value, outputCount)
	if err := e.session.Run([]onnxruntime_go.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o == nil {
				continue
			}
			if err := o.Destroy(); err != nil {
				fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
			}
		}
	}()

	locations, err := floatOutput(outputs[outLocations])
	if err != nil {
		return nil, err
	}
	classes, err := floatOutput(outputs[outClasses])
	if err != nil {
		return nil, err
	}
	scores, err := floatOutput(outputs[outScores])
	if err != nil {
		return nil, err
	}
	countData, err := floatOutput(outputs[outCount])
	if err != nil {
		return nil, err
	}
	if len(countData) == 0 {
		return nil, fmt.Errorf("detection count output is empty")
	}

	return &RawOutputs{
		Locations: locations,
		Classes:   classes,
		Scores:    scores,
		Count:     int(countData[0]),
	}, nil
}

// Close releases the underlying session.
func (e *ortEngine) Close() error {
	if e.session != nil {
		if err := e.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		e.session = nil
	}
	return nil
}

// floatOutput copies a float32 output tensor's data out of runtime-owned
// memory before the value is destroyed.
func floatOutput(v onnxruntime_go.Value) ([]float32, error) {
	t, ok := v.(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("expected float32 output tensor, got %T", v)
	}
	data := t.GetData()
	out := make([]float32, len(data))
	copy(out, data)
	return out, nil
}
