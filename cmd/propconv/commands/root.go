// Package commands implements the propconv CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/propconv/pkg/config"
	"github.com/Sumatoshi-tech/propconv/pkg/importrules"
	"github.com/Sumatoshi-tech/propconv/pkg/observability"
)

// GlobalFlags are shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	RulesPath  string
}

// NewRootCommand builds the propconv command tree.
func NewRootCommand() *cobra.Command {
	flags := &GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "propconv",
		Short: "Convert PropTypes components to TypeScript",
		Long: `propconv rewrites React components declared with PropTypes into
TypeScript: it emits a props type, annotates the component signature and
rewrites imports through a rule table.

Commands:
  convert    Convert files and write the results
  analyze    Dry run; optionally print diffs
  rules      Print the active import rule table
  print-ast  Dump the parsed syntax tree as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default: .propconv.yaml in . or $HOME)")
	rootCmd.PersistentFlags().StringVar(&flags.RulesPath, "rules", "", "YAML import rule table (overrides rules.file)")

	rootCmd.AddCommand(NewConvertCommand(flags))
	rootCmd.AddCommand(NewAnalyzeCommand(flags))
	rootCmd.AddCommand(NewRulesCommand(flags))
	rootCmd.AddCommand(NewPrintASTCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// session is the state a subcommand derives from config and flags.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	rules  []importrules.Rule
}

func newSession(cmd *cobra.Command, flags *GlobalFlags) (*session, error) {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.RulesPath != "" {
		cfg.Rules.File = flags.RulesPath
	}

	rules, err := loadRules(cfg.Rules.File)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: observability.NewLogger(cfg.Logging, cmd.ErrOrStderr()),
		rules:  rules,
	}, nil
}

func loadRules(path string) ([]importrules.Rule, error) {
	if path == "" {
		return importrules.DefaultRules(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule table: %w", err)
	}
	defer f.Close()

	rules, err := importrules.LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

// colorEnabled resolves a report.color mode; auto follows the terminal.
func colorEnabled(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return !color.NoColor
	}
}
