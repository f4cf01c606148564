package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/propconv/pkg/converter"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	global *GlobalFlags
	report ReportFlags
	diff   bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(global *GlobalFlags) *cobra.Command {
	c := &AnalyzeCommand{global: global}

	cobraCmd := &cobra.Command{
		Use:   "analyze <paths...>",
		Short: "Report what convert would do without writing files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Run,
	}

	cobraCmd.Flags().BoolVar(&c.diff, "diff", false, "print a line diff for every converted file")
	c.report.register(cobraCmd)

	return cobraCmd
}

// Run executes the analyze command.
func (c *AnalyzeCommand) Run(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, c.global)
	if err != nil {
		return err
	}

	fsys := converter.OSFS{}

	handler := converter.Discard()
	if c.diff {
		handler = converter.Diff(cmd.OutOrStdout(), fsys)
	}

	return runBatch(cmd, s, fsys, args, handler, c.report.options(s))
}
