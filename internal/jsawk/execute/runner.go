// Package execute runs the filter pipeline: read a line, parse it, test the
// predicate, project, serialize and write.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jacoelho/jsawk/internal/jsawk/config"
	"github.com/jacoelho/jsawk/internal/jsawk/exit"
	"github.com/jacoelho/jsawk/internal/jsawk/expr"
	"github.com/jacoelho/jsawk/internal/jsawk/literal"
	"github.com/jacoelho/jsawk/internal/jsawk/output"
	"github.com/jacoelho/jsawk/internal/jsawk/stream"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
	"golang.org/x/time/rate"
)

var (
	errRead   = errors.New("failed to read input")
	errWrite  = errors.New("failed to write output")
	errEncode = errors.New("failed to encode record")
)

// Stats counts records seen by a run.
type Stats struct {
	Read      int
	Admitted  int
	Discarded int
	Skipped   int
}

type Runner struct {
	program     *expr.Program
	encoder     *output.Encoder
	config      *config.Config
	rateLimiter *rate.Limiter
	runID       string
	stats       Stats
	input       io.Reader
	output      io.Writer
	errOutput   io.Writer
}

// New compiles the configured expression. A compile failure is reported
// before any input is read.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	program, err := expr.Compile(cfg.Expression)
	if err != nil {
		return nil, exit.WithCode(exit.CodeCompile, fmt.Sprintf("Error: %v\n", err))
	}

	return &Runner{
		program:     program,
		encoder:     output.NewEncoder(cfg.Format, cfg.Escape),
		config:      cfg,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		runID:       uuid.New().String(),
		input:       os.Stdin,
		output:      os.Stdout,
		errOutput:   os.Stderr,
	}, nil
}

func newRateLimiter(recordsPerSecond float64) *rate.Limiter {
	if recordsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Limit(recordsPerSecond), 1)
}

func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

// RunID identifies the run in the debug trace.
func (r *Runner) RunID() string {
	return r.runID
}

// Stats returns the counters of the last Run.
func (r *Runner) Stats() Stats {
	return r.stats
}

func (r *Runner) inputReader() io.Reader {
	if r.input == nil {
		return eofReader{}
	}
	return r.input
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

func (r *Runner) debugf(format string, args ...any) {
	if !r.config.Debug {
		return
	}
	r.logf("[%s] %s\n", r.runID, fmt.Sprintf(format, args...))
}

// Run processes the input until it is exhausted, a fatal error occurs or ctx
// is cancelled, and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	r.stats = Stats{}
	predicate, ok := r.program.PredicateSource()
	r.debugf("predicate: %s", describeBody(predicate, ok, "true"))
	projector, ok := r.program.ProjectorSource()
	r.debugf("projector: %s", describeBody(projector, ok, "$"))

	err := r.process(ctx)

	r.debugf("read=%d admitted=%d discarded=%d skipped=%d",
		r.stats.Read, r.stats.Admitted, r.stats.Discarded, r.stats.Skipped)

	code := exitCode(ctx, err)
	switch code {
	case exit.CodeSuccess:
	case exit.CodeInterrupted:
		r.logf("\nInterrupted after %d records\n", r.stats.Read)
	default:
		r.logf("Error: %v\n", err)
	}
	return code
}

type readResult struct {
	line stream.Line
	err  error
}

// readLines feeds lines to the returned channel from its own goroutine so a
// read blocked on the input never delays cancellation. It stops after the
// first error or once done is closed.
func readLines(reader *stream.Reader, done <-chan struct{}) <-chan readResult {
	results := make(chan readResult)
	go func() {
		for {
			line, err := reader.Next()
			select {
			case results <- readResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return results
}

func (r *Runner) process(ctx context.Context) error {
	writer := stream.NewWriter(r.payloadWriter())

	done := make(chan struct{})
	defer close(done)
	lines := readLines(stream.NewReader(r.inputReader()), done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var result readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result = <-lines:
		}

		if errors.Is(result.err, io.EOF) {
			return nil
		}
		if result.err != nil {
			return fmt.Errorf("%w: %w", errRead, result.err)
		}

		r.stats.Read++
		if err := r.processLine(ctx, writer, result.line); err != nil {
			return err
		}
	}
}

func (r *Runner) processLine(ctx context.Context, writer *stream.Writer, line stream.Line) error {
	record, err := literal.Parse(line.Text)
	if err != nil {
		if r.config.SkipInvalid {
			r.stats.Skipped++
			r.logf("Warning: skipping line %d: %v\n", line.Number, err)
			return nil
		}
		return fmt.Errorf("line %d: %w", line.Number, err)
	}

	admit, err := r.program.Test(record)
	if err != nil {
		return fmt.Errorf("line %d: predicate: %w", line.Number, err)
	}
	if !admit {
		r.stats.Discarded++
		return nil
	}

	projected, err := r.program.Project(record)
	if err != nil {
		return fmt.Errorf("line %d: projector: %w", line.Number, err)
	}

	return r.emit(ctx, writer, line, projected)
}

func (r *Runner) emit(ctx context.Context, writer *stream.Writer, line stream.Line, v value.Value) error {
	text, err := r.encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("line %d: %w: %w", line.Number, errEncode, err)
	}

	if err := r.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	if err := writer.WriteLine(text); err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}
	r.stats.Admitted++
	return nil
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exit.CodeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return exit.CodeInterrupted
	case errors.Is(err, literal.ErrSyntax):
		return exit.CodeParse
	case errors.Is(err, expr.ErrEvaluation):
		return exit.CodeEvaluation
	default:
		return exit.CodeIO
	}
}

func describeBody(source string, ok bool, fallback string) string {
	switch {
	case !ok:
		return fallback + " (default)"
	case strings.TrimSpace(source) == "":
		return "null (blank)"
	default:
		return source
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
