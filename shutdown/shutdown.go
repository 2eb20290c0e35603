// Package shutdown runs cleanup hooks when a conversion is interrupted, so
// a Ctrl-C during a slow backend run never strands temp files or a child
// process.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/flanksource/commons/logger"
)

type hook struct {
	label string
	fn    func()
}

var (
	mu    sync.Mutex
	hooks []*hook
	once  sync.Once
)

// AddHook registers fn to run on interrupt and returns a deregistration
// func for callers whose cleanup window has passed.
func AddHook(label string, fn func()) func() {
	h := &hook{label: label, fn: fn}
	mu.Lock()
	hooks = append(hooks, h)
	mu.Unlock()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		for i, cur := range hooks {
			if cur == h {
				hooks = append(hooks[:i], hooks[i+1:]...)
				return
			}
		}
	}
}

// Run executes all registered hooks, most recent first, tolerating panics
// so one misbehaving hook cannot block the rest.
func Run() {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		h := pending[i]
		logger.Debugf("running shutdown hook: %s", h.label)
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("panic in shutdown hook %s: %v", h.label, r)
				}
			}()
			h.fn()
		}()
	}
}

// Listen installs the signal handler once. A second signal forces an
// immediate exit.
func Listen() {
	once.Do(func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			logger.Infof("received %s, cleaning up", sig)
			go func() {
				<-sigCh
				os.Exit(1)
			}()
			Run()
			os.Exit(130)
		}()
	})
}
