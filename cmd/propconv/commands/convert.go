package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/propconv/pkg/config"
	"github.com/Sumatoshi-tech/propconv/pkg/converter"
)

// ReportFlags select how the batch report is printed.
type ReportFlags struct {
	Format  string
	Color   string
	Summary bool
}

func (f *ReportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "format", "f", "", "report format: text, json or yaml (default from config)")
	cmd.Flags().StringVar(&f.Color, "color", "", "color mode: auto, always or never (default from config)")
	cmd.Flags().BoolVar(&f.Summary, "summary", false, "append a summary table to the text report")
}

func (f *ReportFlags) options(s *session) converter.ReportOptions {
	format := s.cfg.Report.Format
	if f.Format != "" {
		format = f.Format
	}

	mode := s.cfg.Report.Color
	if f.Color != "" {
		mode = f.Color
	}

	return converter.ReportOptions{Format: format, Color: colorEnabled(mode), Summary: f.Summary}
}

// ConvertCommand holds the flags for the convert command.
type ConvertCommand struct {
	global    *GlobalFlags
	report    ReportFlags
	inPlace   bool
	extension string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(global *GlobalFlags) *cobra.Command {
	c := &ConvertCommand{global: global}

	cobraCmd := &cobra.Command{
		Use:   "convert <paths...>",
		Short: "Convert component files to TypeScript",
		Long: `Convert every given file. Converted output replaces the source file under
a new extension, or overwrites it with --in-place. Per-file failures are
reported and do not change the exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.Run,
	}

	cobraCmd.Flags().BoolVar(&c.inPlace, "in-place", false, "overwrite the source file instead of renaming it")
	cobraCmd.Flags().StringVar(&c.extension, "ext", "", "extension of converted files (default from config)")
	c.report.register(cobraCmd)

	return cobraCmd
}

// Run executes the convert command.
func (c *ConvertCommand) Run(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, c.global)
	if err != nil {
		return err
	}

	ext := s.cfg.Output.Extension
	if c.extension != "" {
		if !strings.HasPrefix(c.extension, ".") {
			return fmt.Errorf("--ext: %w: %q", config.ErrInvalidExtension, c.extension)
		}

		ext = c.extension
	}

	fsys := converter.OSFS{}

	handler := converter.ReplaceExtension(fsys, ext)
	if c.inPlace || s.cfg.Output.InPlace {
		handler = converter.InPlace(fsys)
	}

	return runBatch(cmd, s, fsys, args, handler, c.report.options(s))
}

// runBatch converts args with handler, prints the report to the command's
// output and writes the metrics textfile when configured.
func runBatch(
	cmd *cobra.Command, s *session, fsys converter.FS, args []string, handler converter.Handler, opts converter.ReportOptions,
) error {
	conv := converter.New(fsys)
	conv.Rules = s.rules
	conv.Logger = s.logger

	var metrics *converter.Metrics
	if s.cfg.Metrics.Textfile != "" {
		metrics = converter.NewMetrics(prometheus.NewRegistry())
		conv.Recorder = metrics
	}

	result := conv.Convert(cmd.Context(), args, handler)

	err := writeReport(cmd.OutOrStdout(), result, opts)
	if err != nil {
		return err
	}

	if metrics != nil {
		err = metrics.WriteTextfile(s.cfg.Metrics.Textfile)
		if err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func writeReport(w io.Writer, result *converter.Result, opts converter.ReportOptions) error {
	err := converter.WriteReport(w, result, opts)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
