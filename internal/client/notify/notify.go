// Package notify shows transient notifications (toasts) to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type Variant int

const (
	Default Variant = iota
	Destructive
)

type Toast struct {
	Title       string
	Description string
	Variant     Variant
}

// Success builds a default toast.
func Success(title, description string) Toast {
	return Toast{Title: title, Description: description}
}

// Failure builds a destructive toast.
func Failure(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: Destructive}
}

// Notifier displays toasts.
type Notifier interface {
	Notify(Toast)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	destructiveStyle = toastStyle.
				BorderForeground(lipgloss.Color("196")).
				Foreground(lipgloss.Color("203"))
)

// Printer renders toasts as boxed terminal blocks.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Notify(t Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, Render(t))
}

// Render formats a toast without printing it.
func Render(t Toast) string {
	body := titleStyle.Render(t.Title)
	if t.Description != "" {
		body += "\n" + t.Description
	}
	if t.Variant == Destructive {
		return destructiveStyle.Render(body)
	}
	return toastStyle.Render(body)
}

// Recorder keeps toasts in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}
