package converter

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Handler receives the converted source of every successfully transformed
// file, exactly once per file.
type Handler interface {
	Handle(path, code string) error
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(path, code string) error

// Handle calls f.
func (f HandlerFunc) Handle(path, code string) error {
	return f(path, code)
}

// Discard drops the output. Used for dry runs.
func Discard() Handler {
	return HandlerFunc(func(string, string) error { return nil })
}

// ReplaceExtension writes the output next to the input with extension ext
// and removes the input.
func ReplaceExtension(fsys FS, ext string) Handler {
	return HandlerFunc(func(path, code string) error {
		target := ReplaceExt(path, ext)

		err := fsys.Write(target, []byte(code))
		if err != nil {
			return err
		}

		if target == path {
			return nil
		}

		return fsys.Remove(path)
	})
}

// InPlace overwrites the input with the output.
func InPlace(fsys FS) Handler {
	return HandlerFunc(func(path, code string) error {
		return fsys.Write(path, []byte(code))
	})
}

// Diff writes a line diff between the file on disk and the output to w
// without touching the file.
func Diff(w io.Writer, fsys FS) Handler {
	return HandlerFunc(func(path, code string) error {
		original, err := fsys.Read(path)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, LineDiff(path, string(original), code))
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}

		return nil
	})
}

// LineDiff renders a line-oriented diff of before and after with "-", "+"
// and " " prefixes under a ---/+++ header. Identical inputs give "".
func LineDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", path, path)

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			sb.WriteString(prefix)
			sb.WriteString(line)

			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}
