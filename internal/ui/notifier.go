package ui

import (
	"fmt"
	"io"
)

// Toaster prints notifications as single styled lines.
type Toaster struct {
	w io.Writer
	r *Renderer
}

func NewToaster(w io.Writer, r *Renderer) *Toaster {
	return &Toaster{w: w, r: r}
}

func (t *Toaster) Success(msg string) { fmt.Fprintln(t.w, t.r.Toast(true, msg)) }
func (t *Toaster) Error(msg string)   { fmt.Fprintln(t.w, t.r.Toast(false, msg)) }
