package analysis

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/model"
)

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = eris.New("analysis: a run is already in progress")

// Opener opens a produced file with the platform's default handler.
type Opener interface {
	Open(path string) error
}

// Form holds the user's selection and the path of the last map produced.
// It is safe for concurrent use; at most one run is in flight at a time.
type Form struct {
	pipeline *Pipeline
	viewer   Opener
	sem      *semaphore.Weighted

	mu      sync.Mutex
	year    model.Year
	sel     model.Selection
	lastMap string
}

// NewForm creates a Form with an empty selection.
func NewForm(p *Pipeline, viewer Opener) *Form {
	return &Form{
		pipeline: p,
		viewer:   viewer,
		sem:      semaphore.NewWeighted(1),
	}
}

// SetYear selects the analysis year. An empty year clears the selection.
func (f *Form) SetYear(y model.Year) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.year = y
}

// SetCategory toggles one category.
func (f *Form) SetCategory(c model.Category, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sel.Set(c, on)
}

// SetSelection replaces every category toggle at once.
func (f *Form) SetSelection(sel model.Selection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sel = sel
}

// Request returns a snapshot of the current selection.
func (f *Form) Request() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Request{Year: f.year, Selection: f.sel}
}

// LastMapPath returns the map written by the most recent successful run, or
// "" if no run has succeeded yet.
func (f *Form) LastMapPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastMap
}

// CanView reports whether a previous run produced a map that still exists.
func (f *Form) CanView() bool {
	return config.FileExists(f.LastMapPath())
}

// RunAnalysis runs the pipeline synchronously for the current selection.
func (f *Form) RunAnalysis(ctx context.Context) (*Result, error) {
	if !f.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer f.sem.Release(1)
	return f.run(ctx)
}

// Submit replaces the selection with req and runs the pipeline in one step,
// so concurrent callers cannot interleave their selections.
func (f *Form) Submit(ctx context.Context, req Request) (*Result, error) {
	if !f.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer f.sem.Release(1)
	f.mu.Lock()
	f.year = req.Year
	f.sel = req.Selection
	f.mu.Unlock()
	return f.run(ctx)
}

// Start runs the pipeline on a new goroutine and reports the outcome through
// done. The run slot is released before done is called. The returned cancel
// func stops the run at the next stage boundary.
func (f *Form) Start(ctx context.Context, done func(*Result, error)) (context.CancelFunc, error) {
	if !f.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		res, err := f.run(ctx)
		cancel()
		f.sem.Release(1)
		if done != nil {
			done(res, err)
		}
	}()
	return cancel, nil
}

func (f *Form) run(ctx context.Context) (*Result, error) {
	res, err := f.pipeline.Run(ctx, f.Request())
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastMap = res.MapPath
	f.mu.Unlock()
	return res, nil
}

// ViewResult opens the last produced map. It does nothing when no run has
// succeeded or the file has since been removed.
func (f *Form) ViewResult() error {
	path := f.LastMapPath()
	if !config.FileExists(path) {
		zap.L().Debug("analysis: no map to view", zap.String("path", path))
		return nil
	}
	if f.viewer == nil {
		return eris.New("analysis: no viewer configured")
	}
	if err := f.viewer.Open(path); err != nil {
		return eris.Wrapf(err, "analysis: open %s", path)
	}
	return nil
}

var printer = message.NewPrinter(language.English)

// Summary returns a one-line description of the run suitable for a dialog.
func (r *Result) Summary() string {
	s := printer.Sprintf("Analysis complete for %s.", r.Year)
	for _, c := range r.Counts {
		pct := 0.0
		if r.TotalPixels > 0 {
			pct = float64(c.Pixels) / float64(r.TotalPixels) * 100
		}
		s += printer.Sprintf(" %s: %d px (%.1f%%).", c.Category.Name(), c.Pixels, pct)
	}
	if r.Sites > 0 {
		s += printer.Sprintf(" %d industrial sites.", r.Sites)
	}
	return s
}
