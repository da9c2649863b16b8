package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store"
)

// terminalEnv keeps the session in a file on disk and everything tab-scoped in
// memory, so a return URL never outlives the process. Timers are real.
type terminalEnv struct {
	durable store.Bucket
	tab     store.Bucket
	out     io.Writer

	navigated chan string
}

var _ service.Env = (*terminalEnv)(nil)

func newTerminalEnv(durable, tab store.Store, out io.Writer) *terminalEnv {
	return &terminalEnv{
		durable:   store.Bucket{Store: durable, Namespace: store.DeviceNamespace("local")},
		tab:       store.Bucket{Store: tab, Namespace: store.TabNamespace("local", "local")},
		out:       out,
		navigated: make(chan string, 1),
	}
}

func (e *terminalEnv) Durable() service.Storage { return e.durable }
func (e *terminalEnv) Tab() service.Storage     { return e.tab }

func (e *terminalEnv) Navigate(target string) {
	fmt.Fprintf(e.out, "-> %s\n", target)
	select {
	case e.navigated <- target:
	default:
	}
}

func (e *terminalEnv) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Navigated delivers the first navigation, if any.
func (e *terminalEnv) Navigated() <-chan string { return e.navigated }

// syncWriter serialises writes from the command and from timer callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
