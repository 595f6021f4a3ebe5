package driver

import (
	"fmt"
	"io"

	"github.com/takoeight0821/lox/utils"
)

// Exit codes a command-line driver reports.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitSyntaxError  = 65
	ExitRuntimeError = 70
)

// Diagnostics collects the errors of one or more runs and prints them to Out.
type Diagnostics struct {
	Out io.Writer

	HadError        bool
	HadRuntimeError bool
}

func NewDiagnostics(out io.Writer) *Diagnostics {
	return &Diagnostics{Out: out}
}

// Report prints lexical and syntax errors, one line each.
func (d *Diagnostics) Report(err error) {
	for _, err := range utils.Leaves(err) {
		fmt.Fprintln(d.Out, err)
		d.HadError = true
	}
}

// ReportRuntime prints the error that aborted a run.
func (d *Diagnostics) ReportRuntime(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(d.Out, err)
	d.HadRuntimeError = true
}

// Reset forgets syntax errors so that the next REPL line can run.
func (d *Diagnostics) Reset() {
	d.HadError = false
}

func (d *Diagnostics) ExitCode() int {
	switch {
	case d.HadError:
		return ExitSyntaxError
	case d.HadRuntimeError:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}
