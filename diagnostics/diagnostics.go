// Package diagnostics is the ambient logging and printing sink shared by
// every domain package. It mirrors the teacher's two-tier idiom: a
// structured logger for warnings that are expected, recoverable analysis
// outcomes (spec.md §7 "precision-loss warnings"), and colorized value
// printing gated by a NoColor flag exactly as the teacher's
// utils.CanColorize/analysis/lattice/common.go colorize struct do.
package diagnostics

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Log is the sink for precision-loss warnings. It defaults to logrus'
// package logger; an embedding driver may swap it for its own configured
// logger (the same pattern as the teacher promoting a package-level
// *log.Logger through utils.Opts()).
var Log logrus.FieldLogger = logrus.StandardLogger()

// NoColor disables ANSI coloring of printed domain values, mirroring the
// teacher's opts.noColorize flag.
var NoColor = false

// Warnf logs a precision-loss warning with the given component tag, per
// spec.md §7: these are expected outcomes, not errors, and never change
// control flow.
func Warnf(component, format string, args ...interface{}) {
	Log.WithField("component", component).Warnf(format, args...)
}

func colorize(c func(...interface{}) string) func(...interface{}) string {
	if NoColor {
		return func(is ...interface{}) string {
			s := ""
			for i, x := range is {
				if i > 0 {
					s += " "
				}
				if str, ok := x.(string); ok {
					s += str
				}
			}
			return s
		}
	}
	return c
}

// Palette is the set of colorized print functions used when rendering
// domain values (spec.md §6 "Output"): bottoms, tops, constants, and
// per-variable intervals each get a distinct color, as in the teacher's
// analysis/lattice/common.go colorize struct.
var Palette = struct {
	Bottom   func(...interface{}) string
	Top      func(...interface{}) string
	Variable func(...interface{}) string
	Const    func(...interface{}) string
}{
	Bottom:   colorize(color.New(color.FgRed).SprintFunc()),
	Top:      colorize(color.New(color.FgGreen).SprintFunc()),
	Variable: colorize(color.New(color.FgCyan).SprintFunc()),
	Const:    colorize(color.New(color.FgYellow).SprintFunc()),
}
