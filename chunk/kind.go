package chunk

import (
	"path"
	"strings"
)

// Kind is the physical kind of a chunk.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindScript
	KindStylesheet
	KindWASM
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindStylesheet:
		return "stylesheet"
	case KindWASM:
		return "wasm"
	default:
		return "unknown"
	}
}

// DefaultExecutable lists the extensions of chunks carrying module factories.
var DefaultExecutable = []string{".js", ".so"}

// Classifier maps chunk paths to kinds by extension.
type Classifier struct {
	executable map[string]struct{}
}

// NewClassifier creates a classifier treating the given extensions as
// executable. With no extensions DefaultExecutable is used.
func NewClassifier(executable ...string) *Classifier {
	if len(executable) == 0 {
		executable = DefaultExecutable
	}
	c := &Classifier{executable: make(map[string]struct{}, len(executable))}
	for _, ext := range executable {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.executable[strings.ToLower(ext)] = struct{}{}
	}
	return c
}

// Classify returns the kind of chunkPath. Query strings and fragments are
// ignored.
func (c *Classifier) Classify(chunkPath string) Kind {
	if i := strings.IndexAny(chunkPath, "?#"); i >= 0 {
		chunkPath = chunkPath[:i]
	}
	ext := strings.ToLower(path.Ext(chunkPath))

	if _, ok := c.executable[ext]; ok {
		return KindScript
	}
	switch ext {
	case ".css":
		return KindStylesheet
	case ".wasm":
		return KindWASM
	default:
		return KindUnknown
	}
}

// Executable reports whether chunkPath carries module factories this runtime
// can install. Everything else is loaded as a silent no-op.
func (c *Classifier) Executable(chunkPath string) bool {
	return c.Classify(chunkPath) == KindScript
}
