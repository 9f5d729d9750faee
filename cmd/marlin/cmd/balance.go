package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marlin-vision/marlin/internal/balance"
	"github.com/marlin-vision/marlin/internal/utils"
	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance <image>",
	Short: "White-patch color balance an underwater photograph",
	Long: `Correct the color cast of an underwater photograph using white-patch
balancing against a reference patch, then sharpen and smooth the result.

The patch is given as row,col,height,width in pixel coordinates. The
brightest pixel of the patch is assumed to be true white.

Examples:
  marlin balance reef.jpg --patch 10,10,64,64
  marlin balance reef.jpg --patch 10,10,64,64 --out-dir corrected`,
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
		balCfg := buildBalanceConfig(cfg)
		if cmd.Flags().Changed("sharpen") {
			balCfg.SharpenFactor, _ = cmd.Flags().GetFloat64("sharpen")
		}
		if cmd.Flags().Changed("smooth") {
			balCfg.SmoothSigma, _ = cmd.Flags().GetFloat64("smooth")
		}
		outDir, _ := cmd.Flags().GetString("out-dir")

		img, meta, err := utils.LoadImage(path)
		if err != nil {
			return err
		}

		balanced, enhanced, err := balance.Apply(img, region, balCfg)
		if err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		balancedPath := filepath.Join(outDir, base+"_balanced.png")
		enhancedPath := filepath.Join(outDir, base+"_enhanced.png")
		if err := utils.SavePNG(balancedPath, balanced); err != nil {
			return err
		}
		if err := utils.SavePNG(enhancedPath, enhanced); err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"Balanced %s (%dx%d) against patch row=%d col=%d %dx%d\n  %s\n  %s\n",
			path, meta.Width, meta.Height,
			region.Row, region.Col, region.Width, region.Height,
			balancedPath, enhancedPath)
		return err
	},
}

func init() {
	balanceCmd.Flags().String("patch", "", "reference patch as row,col,height,width (required)")
	balanceCmd.Flags().Float64("sharpen", 2.0, "sharpness enhancement factor")
	balanceCmd.Flags().Float64("smooth", 1.0, "final smoothing blur sigma (<= 0 disables)")
	balanceCmd.Flags().String("out-dir", ".", "directory for the corrected images")
	rootCmd.AddCommand(balanceCmd)
}
