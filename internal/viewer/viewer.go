// Package viewer opens generated files with the platform's default handler.
package viewer

import (
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Browser opens files through the OS default handler.
type Browser struct {
	open func(string) error
}

// New returns a Browser backed by pkg/browser.
func New() *Browser {
	return &Browser{open: browser.OpenFile}
}

// Open resolves path to an absolute location and hands it to the handler.
func (b *Browser) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return eris.Wrapf(err, "viewer: resolve %s", path)
	}
	zap.L().Info("viewer: opening", zap.String("path", abs))
	if err := b.open(abs); err != nil {
		return eris.Wrapf(err, "viewer: open %s", abs)
	}
	return nil
}
