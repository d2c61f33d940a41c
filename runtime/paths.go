package runtime

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/module"
)

// ResolveAbsolutePath joins p to the runtime root. An empty p yields the
// root itself.
func (r *Runtime) ResolveAbsolutePath(p string) string {
	if p == "" {
		return r.root
	}
	return filepath.Join(r.root, filepath.FromSlash(p))
}

// RelativeURL resolves ref against the file URL of the runtime root.
func (r *Runtime) RelativeURL(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResolve, errors.KindInvalidInput, err, "parse url "+ref)
	}
	return r.rootURL.ResolveReference(u), nil
}

// ResolveModulePath requires id through resolver and converts the exported
// asset path into an absolute path under the root. The asset prefix is
// stripped first. When the export (or its "default" binding) is not a
// string it is returned unchanged.
func (r *Runtime) ResolveModulePath(resolver func(id string) (any, error), id string) (any, error) {
	exported, err := resolver(id)
	if err != nil {
		return nil, err
	}

	value := exported
	if e, ok := exported.(*module.Exports); ok {
		if d, ok := e.Get("default"); ok && d != nil {
			value = d
		}
	}

	p, ok := value.(string)
	if !ok {
		return exported, nil
	}

	p = strings.TrimPrefix(p, r.prefix)
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return r.ResolveAbsolutePath(p), nil
}
