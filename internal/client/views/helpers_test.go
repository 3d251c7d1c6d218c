package views

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/dmitrijs2005/passionpath/internal/client/gateway/gatewaytest"
	"github.com/dmitrijs2005/passionpath/internal/client/models"
	"github.com/dmitrijs2005/passionpath/internal/client/notify"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/dmitrijs2005/passionpath/internal/client/session"
	"github.com/dmitrijs2005/passionpath/internal/logging"
)

var ann = models.Identity{ID: "u1", Email: "ann@example.com"}

type harness struct {
	gw     *gatewaytest.Fake
	holder *session.Holder
	nav    *router.Navigator
	toasts *notify.Recorder
	files  map[string][]byte
	deps   Deps
}

// newHarness wires views to an in-memory gateway. identity may be nil for a
// signed-out visitor.
func newHarness(t *testing.T, start string, identity *models.Identity) *harness {
	t.Helper()
	h := &harness{
		gw:     gatewaytest.New(),
		nav:    router.NewNavigator(start),
		toasts: &notify.Recorder{},
		files:  map[string][]byte{},
	}
	h.gw.PublicBase = "http://cdn.local"
	if identity != nil {
		h.gw.SignInAs(*identity)
	}
	h.holder = session.NewHolder(h.gw, logging.Discard())
	h.holder.Start(context.Background())
	t.Cleanup(h.holder.Stop)

	ids := 0
	h.deps = Deps{
		Gateway: h.gw,
		Session: h.holder,
		Nav:     h.nav,
		Notify:  h.toasts,
		Logger:  logging.Discard(),
		ReadFile: func(path string) ([]byte, error) {
			b, ok := h.files[path]
			if !ok {
				return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
			}
			return b, nil
		},
		NewID: func() string {
			ids++
			return fmt.Sprintf("id%d", ids)
		},
	}
	return h
}

func (h *harness) titles() []string {
	out := make([]string, 0)
	for _, t := range h.toasts.Toasts() {
		out = append(out, t.Title)
	}
	return out
}
