// Package cmd implements the faceplate command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faceplate",
	Short: "Label the faces of a STEP export with semantic names",
	Long: "Faceplate assigns stable, human-readable names to the topological faces\n" +
		"of a B-rep solid and writes them into the solid's STEP export, touching\n" +
		"nothing but the face name fields.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
