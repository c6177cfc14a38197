// SPDX-License-Identifier: MIT

package anvilmenu_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgecraft/anvilmenu"
	"github.com/forgecraft/anvilmenu/memhost"
)

// call captures one response-callback invocation.
type call struct {
	user   anvilmenu.User
	reason anvilmenu.CloseReason
	text   string
}

// recorder is a thread-safe Response that records its invocations. The
// next hook, when set, decides the directive per call; the default is
// DirectiveClose.
type recorder struct {
	mu    sync.Mutex
	calls []call
	next  func(c call) anvilmenu.Directive
}

func (r *recorder) Response(u anvilmenu.User, reason anvilmenu.CloseReason, text string) anvilmenu.Directive {
	c := call{user: u, reason: reason, text: text}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	next := r.next
	r.mu.Unlock()

	if next != nil {
		return next(c)
	}
	return anvilmenu.DirectiveClose
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recorder) setNext(next func(c call) anvilmenu.Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = next
}

// newEngine builds a running host and a factory bound to it.
func newEngine(t *testing.T) (*memhost.Host, *anvilmenu.Factory) {
	t.Helper()
	host := memhost.New()
	t.Cleanup(host.Shutdown)

	factory, err := anvilmenu.New(host)
	require.NoError(t, err)
	return host, factory
}
