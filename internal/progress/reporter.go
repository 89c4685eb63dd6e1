package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// steps is the resolution of the terminal bar.
const steps = 100

// Reporter shows model download progress. It satisfies
// localmodel.ProgressObserver.
type Reporter interface {
	Start(description string)
	Progress(fraction float64)
	Finish()
}

// NewReporter returns a CIReporter if the CI environment variable is set,
// or a TerminalReporter otherwise. Output goes to stderr.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: os.Stderr}
	}
	return &TerminalReporter{out: os.Stderr}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(description string) {
	r.bar = progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Progress(fraction float64) {
	if r.bar != nil {
		_ = r.bar.Set(percent(fraction))
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints a line every time progress crosses another tenth.
type CIReporter struct {
	out         io.Writer
	description string
	lastDecile  int
}

// NewCIReporter creates a CIReporter writing to out.
func NewCIReporter(out io.Writer) *CIReporter {
	return &CIReporter{out: out}
}

func (r *CIReporter) Start(description string) {
	r.description = description
	r.lastDecile = -1
	fmt.Fprintf(r.out, "%s...\n", description)
}

func (r *CIReporter) Progress(fraction float64) {
	d := percent(fraction) / 10
	if d <= r.lastDecile {
		return
	}
	r.lastDecile = d
	fmt.Fprintf(r.out, "[%3d%%] %s\n", d*10, r.description)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out, "%s complete\n", r.description)
}

func percent(fraction float64) int {
	switch {
	case fraction <= 0:
		return 0
	case fraction >= 1:
		return steps
	default:
		return int(fraction * steps)
	}
}
