// Package views holds the client's screens: the session guard, the identity
// bar and the record views (index, login, signup, dashboard, hobby board,
// profile). Views keep their own form state; a failed submission leaves the
// form untouched and reports the failure as a toast.
package views

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/passionpath/internal/client/gateway"
	"github.com/dmitrijs2005/passionpath/internal/client/notify"
	"github.com/dmitrijs2005/passionpath/internal/client/router"
	"github.com/dmitrijs2005/passionpath/internal/client/session"
	"github.com/dmitrijs2005/passionpath/internal/logging"
	"github.com/dmitrijs2005/passionpath/internal/netx"
	"github.com/google/uuid"
)

// ErrRequired is returned when a required form field is empty; nothing is
// sent to the service.
var ErrRequired = errors.New("required")

// Page is a mounted screen.
type Page interface {
	// Mount loads the page's working set.
	Mount(ctx context.Context)
	Render() string
}

// Deps are the collaborators every view receives.
type Deps struct {
	Gateway gateway.Gateway
	Session *session.Holder
	Nav     *router.Navigator
	Notify  notify.Notifier
	Logger  logging.Logger

	// ReadFile loads a file picked for upload.
	ReadFile func(path string) ([]byte, error)
	// NewID names uploaded objects.
	NewID func() string
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.ReadFile == nil {
		d.ReadFile = os.ReadFile
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

func (d Deps) fail(title string, err error) {
	d.Notify.Notify(notify.Failure(title, gateway.Message(err)))
}

func (d Deps) succeed(title, description string) {
	d.Notify.Notify(notify.Success(title, description))
}

// required checks name/value pairs in order.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s is %w", pairs[i], ErrRequired)
		}
	}
	return nil
}

// optional maps "" to nil so the column is stored as null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// upload reads a local file and stores it at path inside bucket, returning
// the public URL of the stored object.
func (d Deps) upload(ctx context.Context, bucket, path, localPath string) (string, error) {
	data, err := d.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = netx.DefaultContentType
	}
	stored, err := d.Gateway.UploadBlob(ctx, bucket, path, data, contentType)
	if err != nil {
		return "", err
	}
	return d.Gateway.PublicURL(bucket, stored), nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

func card(lines ...string) string {
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
