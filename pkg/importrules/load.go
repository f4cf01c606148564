package importrules

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRuleTable is returned for rule tables that fail validation.
var ErrInvalidRuleTable = errors.New("invalid rule table")

//go:embed schema/rules.schema.json
var ruleTableSchema string

// RuleTable is the file form of a rule list.
type RuleTable struct {
	Rules []RuleInfo `json:"rules" yaml:"rules"`
}

// RuleInfo describes one rule. Exactly one of Match and Remove is set.
type RuleInfo struct {
	Match   string       `json:"match,omitempty"   yaml:"match,omitempty"`
	Source  string       `json:"source,omitempty"  yaml:"source,omitempty"`
	Symbols []SymbolInfo `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Remove  string       `json:"remove,omitempty"  yaml:"remove,omitempty"`
}

// SymbolInfo describes one symbol rename.
type SymbolInfo struct {
	From SymbolImport `json:"from" yaml:"from"`
	To   SymbolImport `json:"to"   yaml:"to"`
}

// UnmarshalYAML accepts a bare name for value imports and {default: name}
// for default imports.
func (s *SymbolImport) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = Value(node.Value)

		return nil
	}

	var descriptor struct {
		Default string `yaml:"default"`
	}

	err := node.Decode(&descriptor)
	if err != nil {
		return fmt.Errorf("decode symbol: %w", err)
	}

	*s = Default(descriptor.Default)

	return nil
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (s SymbolImport) MarshalYAML() (any, error) {
	if s.Kind == KindDefault {
		return map[string]string{"default": s.Name}, nil
	}

	return s.Name, nil
}

// LoadRules reads a YAML rule table, validates it against the embedded
// schema and compiles it.
func LoadRules(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}

	var document any

	err = yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleTable, err)
	}

	err = validateTable(document)
	if err != nil {
		return nil, err
	}

	var table RuleTable

	err = yaml.Unmarshal(data, &table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleTable, err)
	}

	return Compile(table.Rules)
}

func validateTable(document any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(ruleTableSchema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRuleTable, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidRuleTable, strings.Join(problems, "; "))
}

// Compile turns rule descriptions into rules.
func Compile(infos []RuleInfo) ([]Rule, error) {
	rules := make([]Rule, 0, len(infos))

	for i, info := range infos {
		if info.Remove != "" {
			pattern, err := regexp.Compile(info.Remove)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRuleTable, i, err)
			}

			rules = append(rules, RemoveImportRule{Source: pattern})

			continue
		}

		pattern, err := regexp.Compile(info.Match)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRuleTable, i, err)
		}

		symbols := make([]SymbolRule, 0, len(info.Symbols))
		for _, symbol := range info.Symbols {
			symbols = append(symbols, Replace(symbol.From, symbol.To))
		}

		rules = append(rules, ImportRule{
			Source:  SourceRule{Match: pattern, Replacement: info.Source},
			Symbols: symbols,
		})
	}

	return rules, nil
}

// Describe converts rules back into their file form. Rules of unknown
// types are left out.
func Describe(rules []Rule) []RuleInfo {
	infos := make([]RuleInfo, 0, len(rules))

	for _, rule := range rules {
		switch typed := rule.(type) {
		case ImportRule:
			info := RuleInfo{Match: typed.Source.Match.String(), Source: typed.Source.Replacement}
			for _, symbol := range typed.Symbols {
				info.Symbols = append(info.Symbols, SymbolInfo{From: symbol.Expected, To: symbol.Replacement})
			}

			infos = append(infos, info)
		case SourceRule:
			infos = append(infos, RuleInfo{Match: typed.Match.String(), Source: typed.Replacement})
		case RemoveImportRule:
			infos = append(infos, RuleInfo{Remove: typed.Source.String()})
		}
	}

	return infos
}

// WriteRules writes rules as a YAML rule table readable by [LoadRules].
func WriteRules(w io.Writer, rules []Rule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(RuleTable{Rules: Describe(rules)})
	if err != nil {
		return fmt.Errorf("encode rule table: %w", err)
	}

	return enc.Close()
}
