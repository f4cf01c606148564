package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/propconv/pkg/importrules"
)

// Rule table output formats.
const (
	rulesFormatTable = "table"
	rulesFormatYAML  = "yaml"
)

// ErrUnknownRulesFormat is returned for an unsupported --format value.
var ErrUnknownRulesFormat = errors.New("unknown rules format")

// RulesCommand holds the flags for the rules command.
type RulesCommand struct {
	global *GlobalFlags
	format string
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(global *GlobalFlags) *cobra.Command {
	c := &RulesCommand{global: global}

	cobraCmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active import rule table",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}

	cobraCmd.Flags().StringVarP(&c.format, "format", "f", rulesFormatTable, "output format: table or yaml")

	return cobraCmd
}

// Run executes the rules command.
func (c *RulesCommand) Run(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd, c.global)
	if err != nil {
		return err
	}

	switch c.format {
	case rulesFormatTable:
		return writeRulesTable(cmd.OutOrStdout(), s.rules)
	case rulesFormatYAML:
		return importrules.WriteRules(cmd.OutOrStdout(), s.rules)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRulesFormat, c.format)
	}
}

func writeRulesTable(w io.Writer, rules []importrules.Rule) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Match", "Source", "Symbols"})

	for i, info := range importrules.Describe(rules) {
		if info.Remove != "" {
			tbl.AppendRow(table.Row{i, info.Remove, "(remove)", ""})

			continue
		}

		symbols := make([]string, 0, len(info.Symbols))
		for _, symbol := range info.Symbols {
			symbols = append(symbols, symbol.From.String()+" -> "+symbol.To.String())
		}

		tbl.AppendRow(table.Row{i, info.Match, info.Source, strings.Join(symbols, "\n")})
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write rules: %w", err)
	}

	return nil
}
