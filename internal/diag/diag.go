// Package diag is a small, source-framed diagnostic log modeled on the
// teacher's internal/logger package: diagnostics are accumulated values
// with a kind, message, and location, not ad hoc formatted strings. It
// backs the one programmer-error diagnostic from spec §7 (P6, write to a
// decorated private method). Configuration errors do not go through it:
// plugin construction returns them as a *decorator.ConfigError.
package diag

import (
	"fmt"

	"github.com/jsdecor/declower/internal/ast"
)

type Kind uint8

const (
	Error Kind = iota
	Note
)

// Msg is one diagnostic entry, e.g. the P6 "Decorated private methods are
// read-only, but this private name is updated via this expression." plus a
// Notes entry pointing back at the private method's declaration. The P6
// text does not spell out the private name itself; only the note's
// location identifies it.
type Msg struct {
	Kind  Kind
	Text  string
	Loc   ast.Loc
	Notes []Msg
}

func (m Msg) String() string {
	s := fmt.Sprintf("%d:%d: error: %s", m.Loc.Line, m.Loc.Column, m.Text)
	for _, note := range m.Notes {
		s += fmt.Sprintf("\n%d:%d: note: %s", note.Loc.Line, note.Loc.Column, note.Text)
	}
	return s
}

// Log accumulates diagnostics for one compilation. It never panics or
// aborts on its own; the caller that reads it after the P6 validator has
// run decides when an accumulated Error is fatal to the surrounding
// compilation, per spec §7's "aborts the compilation".
type Log struct {
	msgs []Msg
}

func (l *Log) AddError(loc ast.Loc, text string) {
	l.msgs = append(l.msgs, Msg{Kind: Error, Text: text, Loc: loc})
}

func (l *Log) AddErrorWithNotes(loc ast.Loc, text string, notes []Msg) {
	l.msgs = append(l.msgs, Msg{Kind: Error, Text: text, Loc: loc, Notes: notes})
}

func (l *Log) HasErrors() bool {
	for _, m := range l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}

func (l *Log) Msgs() []Msg { return l.msgs }
