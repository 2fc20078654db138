package render

import (
	"context"

	"github.com/goliatone/go-formdialog/pkg/dialog"
)

// Renderer converts a dialog response into a byte representation (HTML,
// plain text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, resp *dialog.Response, options RenderOptions) ([]byte, error)
}
