package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
)

// NewPrintASTCommand creates the print-ast command.
func NewPrintASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-ast <file> [kind]",
		Short: "Dump the parsed syntax tree as JSON",
		Long: `Parse a file and print its syntax tree as JSON. With a node kind, only
the subtrees of that kind are printed, as a JSON array.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPrintAST,
	}
}

func runPrintAST(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	tree, err := jsast.Parse(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	var out any = tree.Dump(tree.Root())

	if len(args) == 2 {
		matches := tree.Find(args[1])

		dumps := make([]map[string]any, 0, len(matches))
		for _, id := range matches {
			dumps = append(dumps, tree.Dump(id))
		}

		out = dumps
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	err = enc.Encode(out)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	return nil
}
