package main

import (
	"io"
	"sync"

	fmt "github.com/jhunt/go-ansi"

	"github.com/macaba/mcweb/client/v1/macaba"
)

// screen is a page element drawn on a terminal.  Actions complete on
// their own goroutine, so writes are serialized.
type screen struct {
	Label string
	Out   io.Writer

	lock   sync.Mutex
	failed bool
}

func (s *screen) Show() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.Label != "" {
		fmt.Fprintf(s.Out, "@B{%s}\n", s.Label)
	}
}

func (s *screen) SetHTML(html string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	fmt.Fprintf(s.Out, "%s\n", html)
}

// Fail prints the failure in red and marks the screen failed, so that the
// command can exit non-zero.
func (s *screen) Fail(f *macaba.Failure) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failed = true
	fmt.Fprintf(s.Out, "@R{%s: %s}\n", f.Status, f.Detail)
	if f.Message != "" {
		fmt.Fprintf(s.Out, "@R{%s}\n", f.Message)
	}
}

func (s *screen) SetText(text string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	fmt.Fprintf(s.Out, "%s\n", text)
}

func (s *screen) Failed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.failed
}
