package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/faceplate/pkg/step"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Parse a STEP file and report its shell structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := step.Parse(string(raw))
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d entities, %d shell(s), %d faces\n",
		args[0], len(f.Records), len(f.Shells), len(f.ShellFaces))
	for i, id := range f.ShellFaces {
		name, err := f.Name(id)
		if err != nil {
			return err
		}
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  face %3d  #%-6d %s\n", i, id, name)
	}
	return nil
}
