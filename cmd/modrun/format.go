package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/chunk-runtime/module"
)

// formatExports renders exports one binding per line.
func formatExports(v any) string {
	var b strings.Builder
	switch e := v.(type) {
	case *module.Exports:
		keys := e.Keys()
		if len(keys) == 0 {
			return "  (no exports)"
		}
		if e.ESModule() {
			b.WriteString("  [es module]\n")
		}
		for _, k := range keys {
			val, _ := e.Get(k)
			fmt.Fprintf(&b, "  %s = %s\n", k, formatValue(val))
		}
	case map[string]any:
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s = %s\n", k, formatValue(e[k]))
		}
	default:
		fmt.Fprintf(&b, "  %s\n", formatValue(v))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", x)
	case *module.Exports:
		return fmt.Sprintf("{%s}", strings.Join(x.Keys(), ", "))
	case func(), func() any:
		return "<function>"
	default:
		return fmt.Sprintf("%v (%T)", x, x)
	}
}
