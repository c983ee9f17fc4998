// Package flow runs one commit-message pipeline: validate the repository,
// generate a message with bounded retries, then commit or print it.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/domain"
)

const (
	// MaxAttempts bounds message generation per run.
	MaxAttempts = 3
	// RetryDelay separates generation attempts.
	RetryDelay = 1000 * time.Millisecond

	validationDelay = 1000 * time.Millisecond
	errorDelay      = 2000 * time.Millisecond
	successDelay    = 1500 * time.Millisecond
)

var (
	errEmptyMessage = errors.New("empty commit message")
	errNoGenerator  = errors.New("no message generator configured")
)

// GitPort is the repository surface the pipeline needs.
type GitPort interface {
	ValidateState() domain.ValidationResult
	StagedDiff() (string, error)
	Commit(message string) error
}

// MessageGenerator turns a staged diff into a commit message.
type MessageGenerator interface {
	Generate(ctx context.Context, diff string) (string, error)
}

// StatusDisplay shows the current phase in interactive mode.
type StatusDisplay interface {
	Start(initial domain.Phase)
	SetPhase(p domain.Phase)
	Stop()
}

// Controller wires the ports of a run together.
type Controller struct {
	Git       GitPort
	Generator MessageGenerator
	Display   StatusDisplay

	// Setup builds the generator when Generator is nil. It runs after the
	// repository has been validated, so configuration problems never hide
	// the repository state.
	Setup func() (MessageGenerator, error)

	Stdout io.Writer
	Stderr io.Writer

	// Sleep waits between attempts. Defaults to time.Sleep.
	Sleep func(time.Duration)

	StdoutIsTerminal bool
}

// run is the state of a single invocation.
type run struct {
	c              *Controller
	nonInteractive bool
	display        StatusDisplay
}

func (c *Controller) start(opts domain.RunOptions, initial domain.Phase) *run {
	r := &run{
		c:              c,
		nonInteractive: opts.MessageOnly && !c.StdoutIsTerminal,
	}
	if !r.nonInteractive && c.Display != nil {
		r.display = c.Display
		r.display.Start(initial)
	}
	return r
}

func (r *run) stop() {
	if r.display != nil {
		r.display.Stop()
	}
}

func (r *run) setPhase(p domain.Phase) {
	debug.Logf("flow: phase %s", p.Kind)
	if r.display != nil {
		r.display.SetPhase(p)
	}
}

// fail reports text on the error phase or stderr and returns exit code 1.
func (r *run) fail(text string, delay time.Duration) domain.ExitOutcome {
	if r.nonInteractive {
		fmt.Fprintln(r.c.Stderr, text)
	} else {
		r.setPhase(domain.Failed(text))
	}
	return r.outcome(1, delay)
}

func (r *run) outcome(code int, delay time.Duration) domain.ExitOutcome {
	if r.nonInteractive {
		delay = 0
	}
	return domain.ExitOutcome{Code: code, Delay: delay}
}

// Run executes the pipeline and returns how the process should exit. It
// never exits itself.
func (c *Controller) Run(ctx context.Context, opts domain.RunOptions) (out domain.ExitOutcome) {
	r := c.start(opts, domain.Checking())
	defer r.stop()
	defer func() {
		if v := recover(); v != nil {
			debug.Logf("flow: recovered panic: %v", v)
			out = r.fail("Error: "+errorText(v), errorDelay)
		}
	}()

	if v := c.Git.ValidateState(); !v.Valid {
		return r.fail(v.Text(), validationDelay)
	}

	gen := c.Generator
	if gen == nil {
		if c.Setup == nil {
			return r.fail("Error: "+errNoGenerator.Error(), errorDelay)
		}
		var err error
		if gen, err = c.Setup(); err != nil {
			return r.fail("Error: "+err.Error(), errorDelay)
		}
	}

	diff, err := c.Git.StagedDiff()
	if err != nil {
		return r.fail("Error: "+err.Error(), errorDelay)
	}
	debug.Logf("flow: staged diff is %d bytes", len(diff))

	msg, lastErr := c.generate(ctx, r, gen, diff)
	if msg == "" {
		reason := "Unknown error occurred"
		if lastErr != nil && lastErr.Error() != "" {
			reason = lastErr.Error()
		}
		return r.fail(fmt.Sprintf(
			"Failed to generate commit message after %d attempts. Last error: %s", MaxAttempts, reason), errorDelay)
	}

	if opts.MessageOnly {
		if r.nonInteractive {
			fmt.Fprintln(c.Stdout, msg)
			return r.outcome(0, 0)
		}
		r.setPhase(domain.MessageOnly(msg))
		return r.outcome(0, successDelay)
	}

	r.setPhase(domain.Committing("Commit message: " + msg))
	if err := c.Git.Commit(msg); err != nil {
		return r.fail("Error: "+err.Error(), errorDelay)
	}
	r.setPhase(domain.Success("Committed with message: " + msg))
	return r.outcome(0, successDelay)
}

// generate calls the generator up to MaxAttempts times. It returns the
// first non-empty message, or "" and the last error.
func (c *Controller) generate(ctx context.Context, r *run, gen MessageGenerator, diff string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt == 1 {
			r.setPhase(domain.Generating())
		} else {
			r.setPhase(domain.Retrying(attempt, MaxAttempts))
		}

		msg, err := gen.Generate(ctx, diff)
		if err == nil && msg != "" {
			return msg, nil
		}
		if err == nil {
			err = errEmptyMessage
		}
		lastErr = err
		debug.Logf("flow: attempt %d/%d failed: %v", attempt, MaxAttempts, err)

		if attempt < MaxAttempts {
			c.sleep(RetryDelay)
		}
	}
	return "", lastErr
}

func (c *Controller) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

func errorText(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
