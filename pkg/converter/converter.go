// Package converter runs the component transform over a batch of files,
// isolating failures per file and collecting a report.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/propconv/pkg/importrules"
	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
	"github.com/Sumatoshi-tech/propconv/pkg/transform"
)

// tracerName is the OTel tracer name used when no tracer is configured.
const tracerName = "propconv"

// ErrPanic wraps a panic raised while converting a single file.
var ErrPanic = errors.New("panic during conversion")

// Failure is a path that could not be converted.
type Failure struct {
	Path string
	Err  error
}

// Position returns the source position of the failure, when known.
func (f Failure) Position() (jsast.Position, bool) {
	return jsast.PositionOf(f.Err)
}

// Result classifies every input path of a batch into exactly one group.
// Groups keep the sorted path order.
type Result struct {
	RunID        string
	Success      []string
	Skipped      []string
	NotFound     []string
	Failed       []Failure
	BytesWritten int64
}

// Total returns the number of classified paths.
func (r *Result) Total() int {
	return len(r.Success) + len(r.Skipped) + len(r.NotFound) + len(r.Failed)
}

// Converter converts component files. The zero value is not usable; FS is
// required.
type Converter struct {
	FS FS

	// Rules rewrite imports. Nil means [importrules.DefaultRules].
	Rules []importrules.Rule

	// Mapping resolves custom type references. Nil derives it from Rules.
	Mapping importrules.TypeMapping

	// Logger defaults to [slog.Default].
	Logger *slog.Logger

	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer

	// Recorder defaults to a no-op.
	Recorder Recorder
}

// New returns a Converter reading from fsys with the default rule table.
func New(fsys FS) *Converter {
	return &Converter{FS: fsys}
}

// Convert processes paths in lexicographic order, one at a time. Every
// per-file error is recorded in the result; Convert itself never fails.
func (c *Converter) Convert(ctx context.Context, paths []string, handler Handler) *Result {
	rules := c.Rules
	if rules == nil {
		rules = importrules.DefaultRules()
	}

	mapping := c.Mapping
	if mapping == nil {
		mapping = importrules.DeriveTypeMapping(rules)
	}

	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	result := &Result{RunID: uuid.NewString()}
	logger := c.logger().With("run_id", result.RunID)

	for _, path := range sorted {
		start := time.Now()

		fileCtx, span := c.tracer().Start(ctx, "propconv.convert_file",
			trace.WithAttributes(attribute.String("file.path", path)))

		outcome, written, err := c.convertFile(fileCtx, path, rules, mapping, handler)

		switch outcome {
		case OutcomeSuccess:
			result.Success = append(result.Success, path)
			result.BytesWritten += int64(written)
			logger.InfoContext(fileCtx, "converted", "path", path, "bytes", written)
		case OutcomeSkipped:
			result.Skipped = append(result.Skipped, path)
			logger.DebugContext(fileCtx, "not a component", "path", path)
		case OutcomeNotFound:
			result.NotFound = append(result.NotFound, path)
			logger.WarnContext(fileCtx, "file not found", "path", path)
		case OutcomeFailed:
			result.Failed = append(result.Failed, Failure{Path: path, Err: err})
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(fileCtx, "conversion failed", "path", path, "error", err)
		}

		span.SetAttributes(attribute.String("file.outcome", string(outcome)))
		span.End()

		c.recorder().Record(outcome, time.Since(start))
	}

	return result
}

// convertFile parses, transforms, prints and hands off one file. A panic
// anywhere in that sequence becomes a failure of this file only.
func (c *Converter) convertFile(
	ctx context.Context, path string, rules []importrules.Rule, mapping importrules.TypeMapping, handler Handler,
) (outcome Outcome, written int, err error) { //nolint:nonamedreturns // recover needs named results
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeFailed
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	exists, err := c.FS.Exists(path)
	if err != nil {
		return OutcomeFailed, 0, err
	}

	if !exists {
		return OutcomeNotFound, 0, nil
	}

	src, err := c.FS.Read(path)
	if err != nil {
		return OutcomeFailed, 0, err
	}

	tree, err := jsast.Parse(ctx, src)
	if err != nil {
		return OutcomeFailed, 0, err
	}

	component := ComponentName(path)
	if !transform.IsComponent(tree, component) {
		return OutcomeSkipped, 0, nil
	}

	err = transform.Component(tree, component, rules, mapping)
	if err != nil {
		return OutcomeFailed, 0, err
	}

	code := tree.Print()

	err = handler.Handle(path, code)
	if err != nil {
		return OutcomeFailed, 0, err
	}

	return OutcomeSuccess, len(code), nil
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.Default()
}

func (c *Converter) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}

	return otel.Tracer(tracerName)
}

func (c *Converter) recorder() Recorder {
	if c.Recorder != nil {
		return c.Recorder
	}

	return nopRecorder{}
}
