package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marlin-vision/marlin/internal/pipeline"
	"github.com/marlin-vision/marlin/internal/utils"
	"github.com/spf13/cobra"
)

// compareCmd represents the compare command.
var compareCmd = &cobra.Command{
	Use:   "compare <image>",
	Short: "Compare detection quality before and after color correction",
	Long: `Run detection on the original photograph and on its color-corrected
variant (white-patch balance, sharpen, smoothing) and report both results.

Examples:
  marlin compare reef.jpg --patch 10,10,64,64
  marlin compare reef.jpg --patch 10,10,64,64 --format yaml --save-images`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file provided")
		}
		path := args[0]

		patchFlag, _ := cmd.Flags().GetString("patch")
		if patchFlag == "" {
			return errors.New("--patch is required")
		}
		region, err := parsePatch(patchFlag)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		applyDetectFlags(cmd)

		detCfg, err := buildDetectorConfig(cfg)
		if err != nil {
			return err
		}

		runner, err := pipeline.NewBuilder().
			WithModelsDir(cfg.ModelsDir).
			WithDetector(detCfg).
			WithBalance(buildBalanceConfig(cfg)).
			Build()
		if err != nil {
			return err
		}
		defer func() {
			if err := runner.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error closing pipeline: %v\n", err)
			}
		}()

		img, _, err := utils.LoadImage(path)
		if err != nil {
			return err
		}

		cmp, balanced, enhanced, err := runner.Compare(img, path, region)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save-images"); save {
			outDir, _ := cmd.Flags().GetString("out-dir")
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err := utils.SavePNG(filepath.Join(outDir, base+"_balanced.png"), balanced); err != nil {
				return err
			}
			if err := utils.SavePNG(filepath.Join(outDir, base+"_enhanced.png"), enhanced); err != nil {
				return err
			}
		}

		out, err := pipeline.FormatComparison(cmp, cfg.Output.Format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, cfg.Output.File, out)
	},
}

func init() {
	addDetectFlags(compareCmd)
	compareCmd.Flags().String("patch", "", "reference patch as row,col,height,width (required)")
	compareCmd.Flags().Bool("save-images", false, "save the balanced and enhanced images")
	compareCmd.Flags().String("out-dir", ".", "directory for saved images")
	rootCmd.AddCommand(compareCmd)
}
