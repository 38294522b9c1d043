// Package wizard implements the three-step audit flow: a listing URL is
// submitted on the input step, the returned metrics are reviewed and
// edited on the configure step, and the report step renders them.
//
// A Controller owns one session's state. All methods are safe to call
// from concurrent goroutines; observers are notified outside the lock.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"housingbridge/i18n"
	"housingbridge/models"
	"housingbridge/utils"
)

// Step is the wizard's current screen.
type Step string

const (
	StepInput     Step = "input"
	StepConfigure Step = "configure"
	StepReport    Step = "report"
)

// ErrAuditFailed marks every failure of the audit call.
var ErrAuditFailed = errors.New("audit request failed")

// AuditError carries the cause of a failed audit.
type AuditError struct {
	Err error
}

func (e *AuditError) Error() string { return e.Err.Error() }

func (e *AuditError) Unwrap() []error { return []error{ErrAuditFailed, e.Err} }

// AuditService runs an audit for a listing URL.
type AuditService interface {
	Audit(ctx context.Context, req models.AuditRequest) (models.AuditResult, error)
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Step        Step
	PropertyURL string
	Loading     bool
	Lang        i18n.Lang
	Record      models.AuditRecord
	Notice      string
	CaseNumber  string
}

// Options tune a Controller.
type Options struct {
	// Lang is the starting language; empty means Japanese.
	Lang i18n.Lang
	// KeepStaleResults lets a response that lands after Reset still apply
	// its values and move to the configure step. By default Reset cancels
	// the pending request and its result is dropped.
	KeepStaleResults bool
	// NewCaseNumber names the report produced by Generate.
	NewCaseNumber func() string
}

// Controller is the state machine for one wizard session.
type Controller struct {
	service AuditService
	logger  *utils.Logger
	opts    Options

	mu          sync.Mutex
	step        Step
	propertyURL string
	loading     bool
	lang        i18n.Lang
	record      models.AuditRecord
	notice      string
	caseNumber  string

	// generation is bumped by Reset so an in-flight audit can tell it was abandoned.
	generation    uint64
	cancelPending context.CancelFunc

	observers []func(Snapshot)
}

// New creates a Controller on the input step with the default record.
func New(service AuditService, logger *utils.Logger, opts Options) *Controller {
	if opts.Lang == "" {
		opts.Lang = i18n.Japanese
	}
	if opts.NewCaseNumber == nil {
		opts.NewCaseNumber = NewCaseNumber
	}
	return &Controller{
		service: service,
		logger:  logger,
		opts:    opts,
		step:    StepInput,
		lang:    opts.Lang,
		record:  models.DefaultAuditRecord(),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Step:        c.step,
		PropertyURL: c.propertyURL,
		Loading:     c.loading,
		Lang:        c.lang,
		Record:      c.record,
		Notice:      c.notice,
		CaseNumber:  c.caseNumber,
	}
}

// update runs fn under the lock and, if it reports a change, notifies observers.
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	changed := fn()
	var (
		snap      Snapshot
		observers []func(Snapshot)
	)
	if changed {
		snap = c.snapshotLocked()
		observers = append(observers, c.observers...)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Loading reports whether an audit request is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Record returns a copy of the audit record.
func (c *Controller) Record() models.AuditRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Notice returns the pending failure notice, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the failure notice.
func (c *Controller) DismissNotice() {
	c.update(func() bool {
		if c.notice == "" {
			return false
		}
		c.notice = ""
		return true
	})
}

// SetPropertyURL stores the URL typed on the input step.
func (c *Controller) SetPropertyURL(u string) {
	c.update(func() bool {
		if c.propertyURL == u {
			return false
		}
		c.propertyURL = u
		return true
	})
}

// Submit sends the property URL to the audit service. It is a no-op when
// the URL is empty, a request is already in flight, or the wizard is not
// on the input step. On success the service's price, neighborhood and
// scam score replace the record's and the wizard moves to configure. On
// failure the wizard stays on input, the record is untouched, a notice is
// set, and an error matching ErrAuditFailed is returned.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.propertyURL == "" || c.loading || c.step != StepInput {
		c.mu.Unlock()
		return nil
	}
	url := c.propertyURL
	gen := c.generation
	ctx, cancel := context.WithCancel(ctx)
	c.cancelPending = cancel
	c.loading = true
	c.notice = ""
	snap := c.snapshotLocked()
	observers := append([]func(Snapshot){}, c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	defer cancel()

	c.logger.Info("[wizard] Submitting audit for %s", url)
	res, err := c.service.Audit(ctx, models.AuditRequest{URL: url})

	var auditErr error
	c.update(func() bool {
		stale := gen != c.generation
		if stale && !c.opts.KeepStaleResults {
			// Reset already cleared loading and owns the state now.
			c.logger.Info("[wizard] Dropping audit result for %s: wizard was reset", url)
			return false
		}

		c.loading = false
		c.cancelPending = nil
		if err != nil {
			auditErr = &AuditError{Err: err}
			c.notice = i18n.For(c.lang).AuditFailed + err.Error()
			c.logger.Warn("[wizard] Audit failed for %s: %v", url, err)
			return true
		}

		c.record.Merge(res)
		c.step = StepConfigure
		c.logger.Info("[wizard] Audit complete for %s: score=%d", url, res.ScamScore)
		return true
	})
	return auditErr
}

// Reset returns to the input step from anywhere. The record and URL are
// kept. A pending audit is cancelled unless KeepStaleResults is set.
func (c *Controller) Reset() {
	c.update(func() bool {
		changed := c.step != StepInput
		c.step = StepInput
		if c.loading && !c.opts.KeepStaleResults {
			c.generation++
			if c.cancelPending != nil {
				c.cancelPending()
				c.cancelPending = nil
			}
			c.loading = false
			changed = true
		}
		return changed
	})
}

// Back returns from configure to input without clearing anything.
func (c *Controller) Back() {
	c.update(func() bool {
		if c.step != StepConfigure {
			return false
		}
		c.step = StepInput
		return true
	})
}

// Generate moves from configure to report. Field values are not checked.
func (c *Controller) Generate() {
	c.update(func() bool {
		if c.step != StepConfigure {
			return false
		}
		c.step = StepReport
		c.caseNumber = c.opts.NewCaseNumber()
		return true
	})
}

// Export prints the report through p. It only works on the report step.
func (c *Controller) Export(p Printer) error {
	c.mu.Lock()
	if c.step != StepReport {
		c.mu.Unlock()
		return fmt.Errorf("wizard: export from %s step", c.step)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	return p.Print(snap)
}

// Printer is the platform's print capability.
type Printer interface {
	Print(Snapshot) error
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(Snapshot) error

func (f PrinterFunc) Print(s Snapshot) error { return f(s) }

// ToggleLanguage flips between Japanese and English.
func (c *Controller) ToggleLanguage() i18n.Lang {
	var lang i18n.Lang
	c.update(func() bool {
		c.lang = i18n.Toggle(c.lang)
		lang = c.lang
		return true
	})
	return lang
}

// Lang returns the current language.
func (c *Controller) Lang() i18n.Lang {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}
