package headers

import "fmt"

// State is a state of the header scanner.
type State int

const (
	// Init is the start of a line or region, before anything is decided.
	Init State = iota

	// Package is inside a leading package statement, up to its ';'.
	Package

	// NoPackage follows a package statement or a block comment and only
	// accepts blanks or the start of another comment.
	NoPackage

	// OpenBar follows a single '/' that may open a comment.
	OpenBar

	// Line is inside a // comment.
	Line

	// Multiline is inside a /* */ comment.
	Multiline

	// EndMultiline follows a '*' inside a block comment that may close it.
	EndMultiline
)

var stateNames = [...]string{
	Init:         "Init",
	Package:      "Package",
	NoPackage:    "NoPackage",
	OpenBar:      "OpenBar",
	Line:         "Line",
	Multiline:    "Multiline",
	EndMultiline: "EndMultiline",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
