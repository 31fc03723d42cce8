// Package desktop is the native window front end of the selection form.
package desktop

import (
	"context"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/analysis"
	"github.com/sells-group/landcover-cli/internal/model"
)

// Runner is the part of analysis.Form the window drives.
type Runner interface {
	SetYear(y model.Year)
	SetCategory(c model.Category, on bool)
	Start(ctx context.Context, done func(*analysis.Result, error)) (context.CancelFunc, error)
	ViewResult() error
	CanView() bool
}

// Window is the analysis form window.
type Window struct {
	runner Runner
	win    fyne.Window
	ctx    context.Context

	years   *widget.RadioGroup
	checks  map[model.Category]*widget.Check
	runBtn  *widget.Button
	viewBtn *widget.Button
	status  *widget.Label

	showError func(error, fyne.Window)
	showInfo  func(title, message string, parent fyne.Window)
}

// New builds the form window. The first year is selected and every
// category starts unchecked.
func New(ctx context.Context, app fyne.App, runner Runner, region string) *Window {
	w := &Window{
		runner:    runner,
		win:       app.NewWindow(region + " Analysis"),
		ctx:       ctx,
		checks:    make(map[model.Category]*widget.Check),
		showError: dialog.ShowError,
		showInfo:  dialog.ShowInformation,
	}

	var labels []string
	for _, y := range model.AllYears() {
		labels = append(labels, string(y))
	}
	w.years = widget.NewRadioGroup(labels, func(v string) {
		runner.SetYear(model.Year(v))
	})
	w.years.SetSelected(labels[0])

	features := container.NewVBox()
	for _, c := range model.AllCategories() {
		chk := widget.NewCheck(c.Name(), func(on bool) { runner.SetCategory(c, on) })
		w.checks[c] = chk
		features.Add(chk)
	}

	w.runBtn = widget.NewButton("Perform Analysis", w.perform)
	w.viewBtn = widget.NewButton("View Map", w.view)
	w.viewBtn.Disable()
	w.status = widget.NewLabel("")

	header := widget.NewLabelWithStyle(region+" Urban Analysis", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	w.win.SetContent(container.NewVBox(
		header,
		widget.NewCard("Select Year", "", w.years),
		widget.NewCard("Select Features", "", features),
		w.runBtn,
		w.viewBtn,
		w.status,
	))
	w.win.Resize(fyne.NewSize(600, 400))
	return w
}

// ShowAndRun displays the window and blocks until it is closed.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *Window) perform() {
	w.runBtn.Disable()
	w.status.SetText("Running analysis...")
	_, err := w.runner.Start(w.ctx, func(res *analysis.Result, err error) {
		fyne.Do(func() { w.finish(res, err) })
	})
	if err != nil {
		w.finish(nil, err)
	}
}

func (w *Window) finish(res *analysis.Result, err error) {
	w.runBtn.Enable()
	w.status.SetText("")
	if err != nil {
		zap.L().Warn("desktop: analysis failed", zap.Error(err))
		w.showError(err, w.win)
		return
	}
	if w.runner.CanView() {
		w.viewBtn.Enable()
	}
	w.showInfo("Success", res.Summary()+" Click 'View Map' to see the results.", w.win)
}

func (w *Window) view() {
	if err := w.runner.ViewResult(); err != nil {
		w.showError(err, w.win)
	}
}
