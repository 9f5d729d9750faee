package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marlin-vision/marlin/internal/overlay"
	"github.com/marlin-vision/marlin/internal/pipeline"
	"github.com/marlin-vision/marlin/internal/utils"
	"github.com/spf13/cobra"
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect <image>...",
	Short: "Detect marine objects in underwater photographs",
	Long: `Run object detection on one or more image files.

Supported formats: JPEG, PNG, BMP

Examples:
  marlin detect reef.jpg
  marlin detect *.png --format json
  marlin detect reef.jpg --overlay-dir overlays --max-results 5`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		applyDetectFlags(cmd)

		format := cfg.Output.Format
		outputFile := cfg.Output.File
		overlayDir := cfg.Output.OverlayDir

		detCfg, err := buildDetectorConfig(cfg)
		if err != nil {
			return err
		}

		runner, err := pipeline.NewBuilder().
			WithModelsDir(cfg.ModelsDir).
			WithDetector(detCfg).
			Build()
		if err != nil {
			return err
		}
		defer func() {
			if err := runner.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error closing pipeline: %v\n", err)
			}
		}()

		opts := overlay.DefaultOptions()
		if cfg.Output.BoxColor != "" {
			if opts.BoxColor, err = parseHexColor(cfg.Output.BoxColor); err != nil {
				return err
			}
		}
		if cfg.Output.TextColor != "" {
			if opts.TextColor, err = parseHexColor(cfg.Output.TextColor); err != nil {
				return err
			}
		}

		var rendered []string
		for _, path := range args {
			img, _, err := utils.LoadImage(path)
			if err != nil {
				return err
			}

			res, err := runner.ProcessImage(img, path)
			if err != nil {
				return err
			}

			out, err := pipeline.Format(res, format)
			if err != nil {
				return err
			}
			rendered = append(rendered, out)

			if overlayDir != "" {
				annotated := overlay.Annotate(img, res.Detections, opts)
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_overlay.png"
				if err := utils.SavePNG(filepath.Join(overlayDir, name), annotated); err != nil {
					return err
				}
			}
		}

		return writeOutput(cmd, outputFile, strings.Join(rendered, "\n"))
	},
}

// applyDetectFlags copies explicitly set command flags over the loaded
// configuration so flags win over config file and environment.
func applyDetectFlags(cmd *cobra.Command) {
	cfg := GetConfig()
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("overlay-dir") {
		cfg.Output.OverlayDir, _ = cmd.Flags().GetString("overlay-dir")
	}
	if cmd.Flags().Changed("box-color") {
		cfg.Output.BoxColor, _ = cmd.Flags().GetString("box-color")
	}
	if cmd.Flags().Changed("text-color") {
		cfg.Output.TextColor, _ = cmd.Flags().GetString("text-color")
	}
	if cmd.Flags().Changed("model") {
		cfg.Detector.ModelPath, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("confidence") {
		cfg.Detector.ScoreThreshold, _ = cmd.Flags().GetFloat64("confidence")
	}
	if cmd.Flags().Changed("max-results") {
		cfg.Detector.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if cmd.Flags().Changed("allow") {
		cfg.Detector.AllowList, _ = cmd.Flags().GetStringSlice("allow")
	}
	if cmd.Flags().Changed("deny") {
		cfg.Detector.DenyList, _ = cmd.Flags().GetStringSlice("deny")
	}
	if cmd.Flags().Changed("threads") {
		cfg.Detector.NumThreads, _ = cmd.Flags().GetInt("threads")
	}
	if cmd.Flags().Changed("gpu") {
		cfg.GPU.Enabled, _ = cmd.Flags().GetBool("gpu")
	}
}

func addDetectFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "path to the ONNX detection model")
	cmd.Flags().Float64P("confidence", "c", 0.5, "score threshold for detections (0.0-1.0)")
	cmd.Flags().Int("max-results", -1, "maximum detections to return (<= 0 for unbounded)")
	cmd.Flags().StringSlice("allow", nil, "only keep detections with these labels")
	cmd.Flags().StringSlice("deny", nil, "drop detections with these labels")
	cmd.Flags().Int("threads", 0, "number of CPU threads (0 for auto)")
	cmd.Flags().Bool("gpu", false, "use CUDA acceleration")
	cmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
}

func init() {
	addDetectFlags(detectCmd)
	detectCmd.Flags().String("overlay-dir", "", "directory to write annotated overlay images")
	detectCmd.Flags().String("box-color", "", "bounding box color as #RRGGBB")
	detectCmd.Flags().String("text-color", "", "label text color as #RRGGBB")
	rootCmd.AddCommand(detectCmd)
}
