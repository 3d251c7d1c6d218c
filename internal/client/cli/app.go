package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/client/config"
	"github.com/dmitrijs2005/passionpath/internal/client/gateway"
	"github.com/dmitrijs2005/passionpath/internal/client/notify"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/dmitrijs2005/passionpath/internal/client/session"
	"github.com/dmitrijs2005/passionpath/internal/client/views"
	"github.com/dmitrijs2005/passionpath/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

const onlineCheckInterval = 30 * time.Second

// pinger is implemented by gateways that can report reachability.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	gw     gateway.Gateway
	closer io.Closer

	holder *session.Holder
	nav    *router.Navigator
	shell  *views.Shell

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the client from configuration: a gRPC gateway to the record
// store, or the disconnected gateway when c.Offline is set.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, "text").With("app", "cli")

	var gw gateway.Gateway = gateway.Disconnected{}
	var closer io.Closer
	if !c.Offline {
		g, err := gateway.NewGRPCGateway(c.ServerEndpointAddr, c.StoragePublicURL, logger)
		if err != nil {
			return nil, fmt.Errorf("record store gateway: %w", err)
		}
		gw, closer = g, g
	}

	a := newApp(c, gw, logger, os.Stdin, os.Stdout)
	a.closer = closer
	return a, nil
}

func newApp(c *config.Config, gw gateway.Gateway, l logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config: c,
		logger: l,
		gw:     gw,
		holder: session.NewHolder(gw, l),
		nav:    router.NewNavigator(router.PathIndex),
		reader: bufio.NewReader(in),
		out:    out,
		mode:   ModeDisabled,
	}
	if _, ok := gw.(pinger); ok {
		a.mode = ModeOffline
	}
	a.shell = views.NewShell(views.Deps{
		Gateway: gw,
		Session: a.holder,
		Nav:     a.nav,
		Notify:  notify.NewPrinter(out),
		Logger:  l,
	})
	return a
}

// Run starts the session holder and the connectivity watcher, shows the
// landing page and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close(ctx)

	if p, ok := a.gw.(pinger); ok {
		a.checkOnline(ctx, p)
		go a.StartOnlineStatusWatcher(ctx, p, onlineCheckInterval)
	}

	a.holder.Start(ctx)
	a.shell.Mount(ctx)

	fmt.Fprintln(a.out, "Welcome to My Passion Path (type 'help' for commands)")
	a.Show(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	a.shell.Unmount()
	a.holder.Stop()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn(ctx, "close gateway", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.holder.Current().SignedIn()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context, p pinger) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the record store every interval and flips
// the mode shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, p pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx, p)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if id := a.holder.Current().Identity; id != nil {
		s = id.Email + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s) %s", s, a.nav.Current().Path)
}
