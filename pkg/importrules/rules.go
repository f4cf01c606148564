package importrules

import (
	"fmt"
	"regexp"
)

// SymbolKind distinguishes default imports from value (named) imports.
type SymbolKind int

// Symbol kinds.
const (
	KindValue SymbolKind = iota
	KindDefault
)

func (k SymbolKind) String() string {
	if k == KindDefault {
		return "default"
	}

	return "value"
}

// SymbolImport is an imported binding as matched and produced by rules.
// Two symbols are equal when kind and name match.
type SymbolImport struct {
	Kind SymbolKind
	Name string
}

// Default is a default import of name.
func Default(name string) SymbolImport {
	return SymbolImport{Kind: KindDefault, Name: name}
}

// Value is a named import of name.
func Value(name string) SymbolImport {
	return SymbolImport{Kind: KindValue, Name: name}
}

func (s SymbolImport) String() string {
	if s.Kind == KindDefault {
		return "default " + s.Name
	}

	return s.Name
}

func (s SymbolImport) specifier() Specifier {
	if s.Kind == KindDefault {
		return Specifier{Form: FormDefault, Imported: s.Name, Local: s.Name}
	}

	return Specifier{Form: FormNamed, Imported: s.Name, Local: s.Name}
}

// Rule rewrites an import declaration. Apply reports whether the rule
// matched; a matching rule stops evaluation of the rules after it.
type Rule interface {
	Apply(imp *Import) (bool, error)
}

// SymbolRule replaces a specifier equal to Expected with Replacement.
type SymbolRule struct {
	Expected    SymbolImport
	Replacement SymbolImport
}

// Replace builds a SymbolRule.
func Replace(expected, replacement SymbolImport) SymbolRule {
	return SymbolRule{Expected: expected, Replacement: replacement}
}

// ApplyAt rewrites the specifier at index when it equals Expected.
func (r SymbolRule) ApplyAt(imp *Import, index int) (bool, error) {
	if imp.Specifiers()[index].Symbol() != r.Expected {
		return false, nil
	}

	err := imp.ReplaceSpecifier(index, r.Replacement)
	if err != nil {
		return false, err
	}

	return true, nil
}

// SourceRule rewrites the module path of an import. The first match of
// Match is substituted by Replacement, which may reference capture groups
// as $1 or ${name}.
type SourceRule struct {
	Match       *regexp.Regexp
	Replacement string
}

// Apply implements [Rule].
func (r SourceRule) Apply(imp *Import) (bool, error) {
	source := imp.Source()

	loc := r.Match.FindStringSubmatchIndex(source)
	if loc == nil {
		return false, nil
	}

	expanded := r.Match.ExpandString(nil, r.Replacement, source, loc)

	err := imp.SetSource(source[:loc[0]] + string(expanded) + source[loc[1]:])
	if err != nil {
		return false, err
	}

	return true, nil
}

// ImportRule rewrites the module path and then every specifier with the
// first matching SymbolRule. It is a no-op when the source does not match.
type ImportRule struct {
	Source  SourceRule
	Symbols []SymbolRule
}

// Rewrite builds an ImportRule from a source pattern. It panics when the
// pattern does not compile.
func Rewrite(pattern, newSource string, symbols ...SymbolRule) ImportRule {
	return ImportRule{
		Source:  SourceRule{Match: regexp.MustCompile(pattern), Replacement: newSource},
		Symbols: symbols,
	}
}

// Apply implements [Rule].
func (r ImportRule) Apply(imp *Import) (bool, error) {
	matched, err := r.Source.Apply(imp)
	if err != nil || !matched {
		return false, err
	}

	for index := range imp.Specifiers() {
		for _, symbol := range r.Symbols {
			replaced, applyErr := symbol.ApplyAt(imp, index)
			if applyErr != nil {
				return false, applyErr
			}

			if replaced {
				break
			}
		}
	}

	return true, nil
}

// RemoveImportRule deletes declarations whose module path matches Source.
type RemoveImportRule struct {
	Source *regexp.Regexp
}

// Remove builds a RemoveImportRule. It panics when the pattern does not
// compile.
func Remove(pattern string) RemoveImportRule {
	return RemoveImportRule{Source: regexp.MustCompile(pattern)}
}

// Apply implements [Rule].
func (r RemoveImportRule) Apply(imp *Import) (bool, error) {
	if !r.Source.MatchString(imp.Source()) {
		return false, nil
	}

	err := imp.Remove()
	if err != nil {
		return false, err
	}

	return true, nil
}

// ApplyRules runs rules in order and stops at the first one that matches.
func ApplyRules(imp *Import, rules []Rule) (bool, error) {
	for i, rule := range rules {
		matched, err := rule.Apply(imp)
		if err != nil {
			return false, fmt.Errorf("import rule %d on %q: %w", i, imp.Source(), err)
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}

// TypeMapping resolves custom type references to their new names.
type TypeMapping map[string]string

// DeriveTypeMapping collects Expected.Name -> Replacement.Name from every
// symbol rule of every ImportRule, in list order. The first rule that maps a
// name wins.
func DeriveTypeMapping(rules []Rule) TypeMapping {
	mapping := make(TypeMapping)

	for _, rule := range rules {
		importRule, ok := rule.(ImportRule)
		if !ok {
			continue
		}

		for _, symbol := range importRule.Symbols {
			if _, seen := mapping[symbol.Expected.Name]; seen {
				continue
			}

			mapping[symbol.Expected.Name] = symbol.Replacement.Name
		}
	}

	return mapping
}
