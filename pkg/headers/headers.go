// Package headers extracts the leading header comments of a C-family source
// file (Java by default).
//
// A header is the contiguous run of // and /* */ comments at the top of a
// file. Blank lines, spaces and tabs between comments are transparent, and so
// is a single package statement terminated by ';':
//
//	package com.example;   // skipped
//
//	/* Copyright ... */    // header
//	// Licensed under ...  // header
//	class Foo {}           // header run ends here
//
// The comment delimiters are stripped and everything else inside the comments
// is kept verbatim, so the result of the file above is
// " Copyright ...  Licensed under ...\n".
//
// # Limitations
//
// The scanner is purely lexical:
//   - Nested block comments are not supported
//   - String and char literals are not recognized
//   - Only ' ', '\t' and '\n' count as blank
package headers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// PackageKeyword is the keyword matched in strict package mode.
const PackageKeyword = "package"

// ErrInvalidUTF8 is returned by ExtractReader when the consumed input is not
// valid UTF-8.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// Extract returns the concatenated text of the header comments found at the
// top of source. It never fails: input without a header yields "".
func Extract(source string) string {
	return ExtractWith(source)
}

// ExtractWith is Extract with scanner options applied.
func ExtractWith(source string, opts ...Option) string {
	s := NewScanner(opts...)
	s.FeedString(source)
	return s.Header()
}

// ExtractReader reads runes from r until the header run ends or r is
// exhausted. Reading stops as soon as the scanner is done, so only the top
// of a large file is consumed. An invalid UTF-8 sequence in the consumed
// part fails with ErrInvalidUTF8; bytes past the end of the header are never
// checked. On error the header read so far is returned with it.
func ExtractReader(r io.Reader, opts ...Option) (string, error) {
	br, ok := r.(io.RuneReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	s := NewScanner(opts...)
	offset := 0
	for !s.Done() {
		ch, size, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.Header(), fmt.Errorf("failed to read source: %w", err)
		}
		if ch == utf8.RuneError && size == 1 {
			return s.Header(), fmt.Errorf("byte %d: %w", offset, ErrInvalidUTF8)
		}
		offset += size
		s.Feed(ch)
	}
	return s.Header(), nil
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithStrictPackage makes the scanner require the full "package" keyword
// before a leading statement is skipped. Without it any statement starting
// with 'p' and ending with ';' is skipped.
func WithStrictPackage() Option {
	return WithPackageKeyword(PackageKeyword)
}

// WithPackageKeyword sets the keyword a skipped leading statement must start
// with. Its first rune is what opens the statement in the Init state, so a
// keyword starting with a blank or '/' never matches. An empty keyword
// restores the permissive default: any statement starting with 'p'.
func WithPackageKeyword(kw string) Option {
	return func(s *Scanner) {
		s.keyword = []rune(kw)
	}
}

// Scanner is the incremental form of Extract. The zero value is not usable;
// create one with NewScanner.
type Scanner struct {
	state   State
	done    bool
	keyword []rune
	lead    rune // opens a package statement in Init
	matched int
	header  strings.Builder
}

// NewScanner returns a scanner in the Init state with an empty header.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{state: Init, lead: 'p'}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.keyword) > 0 {
		s.lead = s.keyword[0]
	}
	return s
}

// State returns the current state. After Done reports true it is the state
// in which the header run ended.
func (s *Scanner) State() State {
	return s.state
}

// Done reports whether the header run has ended. Further input is ignored.
func (s *Scanner) Done() bool {
	return s.done
}

// Header returns the header text accumulated so far.
func (s *Scanner) Header() string {
	return s.header.String()
}

// FeedString feeds every rune of src, stopping early once the scanner is done.
func (s *Scanner) FeedString(src string) {
	for _, ch := range src {
		if s.done {
			return
		}
		s.Feed(ch)
	}
}

// Feed advances the state machine by one rune.
func (s *Scanner) Feed(ch rune) {
	if s.done {
		return
	}

	switch s.state {
	case Init:
		switch ch {
		case ' ', '\t', '\n':
		case '/':
			s.state = OpenBar
		case s.lead:
			s.state = Package
			s.matched = 1
		default:
			s.stop()
		}

	case Package:
		if s.matched >= len(s.keyword) {
			if ch == ';' {
				s.state = NoPackage
			}
		} else if ch != s.keyword[s.matched] {
			s.stop()
		} else {
			s.matched++
		}

	case NoPackage:
		switch ch {
		case ' ', '\t', '\n':
		case '/':
			s.state = OpenBar
		default:
			s.stop()
		}

	case OpenBar:
		switch ch {
		case '/':
			s.state = Line
		case '*':
			s.state = Multiline
		default:
			s.stop()
		}

	case Line:
		s.header.WriteRune(ch)
		if ch == '\n' {
			s.state = Init
		}

	case Multiline:
		if ch == '*' {
			s.state = EndMultiline
		} else {
			s.header.WriteRune(ch)
		}

	case EndMultiline:
		switch ch {
		case '/':
			s.state = NoPackage
		case '*':
			s.header.WriteByte('*')
		default:
			s.header.WriteByte('*')
			s.header.WriteRune(ch)
			s.state = Multiline
		}
	}
}

func (s *Scanner) stop() {
	s.done = true
}
