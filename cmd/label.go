package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/chazu/faceplate/pkg/classify"
	"github.com/chazu/faceplate/pkg/kernel/memsolid"
	"github.com/chazu/faceplate/pkg/label"
)

var (
	featuresPath    string
	descriptorsPath string
)

var labelCmd = &cobra.Command{
	Use:   "label FILE",
	Short: "Classify a descriptor dump and write face labels into a STEP file",
	Long: "Label loads a feature table and a JSON descriptor dump (one descriptor per\n" +
		"face, in kernel traversal order, produced by a kernel-side harness),\n" +
		"classifies every face, and rewrites the STEP file's face names in place.\n" +
		"On any fatal condition the file is left untouched.",
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

func init() {
	labelCmd.Flags().StringVar(&featuresPath, "features", "", "feature table (TOML)")
	labelCmd.Flags().StringVar(&descriptorsPath, "descriptors", "", "descriptor dump (JSON)")
	labelCmd.MarkFlagRequired("features")
	labelCmd.MarkFlagRequired("descriptors")
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := classify.Load(featuresPath)
	if err != nil {
		return err
	}
	solid, err := memsolid.ReadFile(descriptorsPath)
	if err != nil {
		return err
	}

	summary, err := label.ClassifyAndLabel(solid, args[0], cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%d faces:\n", len(summary.Labels))
	for _, gc := range summary.SortedCounts() {
		fmt.Printf("  %s: %d\n", gc.Label, gc.Count)
	}
	if summary.Unclassified > 0 {
		log.Printf("WARNING: %d unclassified face(s)", summary.Unclassified)
	}
	return nil
}
