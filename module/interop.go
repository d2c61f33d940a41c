package module

// IsESModule reports whether v is an exports object flagged as an ES module.
func IsESModule(v any) bool {
	e, ok := v.(*Exports)
	return ok && e.ESModule()
}

// InteropESM exposes raw through the namespace ns and returns ns.
//
// Every property of raw becomes a live getter on ns. A "default" binding
// pointing at raw itself is added unless allowExportDefault is set and raw
// already provides one. Plain map values are treated like exports objects;
// any other value only gets the default binding.
func InteropESM(raw any, ns *Exports, allowExportDefault bool) *Exports {
	hasDefault := false

	switch src := raw.(type) {
	case *Exports:
		for _, key := range src.Keys() {
			ns.Define(key, liveGetter(src, key))
			if key == "default" {
				hasDefault = true
			}
		}
	case map[string]any:
		for key := range src {
			ns.Define(key, mapGetter(src, key))
			if key == "default" {
				hasDefault = true
			}
		}
	}

	if !(allowExportDefault && hasDefault) {
		ns.Define("default", func() any { return raw })
	}
	ns.MarkESModule()
	return ns
}

func liveGetter(src *Exports, key string) func() any {
	return func() any {
		v, _ := src.Get(key)
		return v
	}
}

func mapGetter(src map[string]any, key string) func() any {
	return func() any { return src[key] }
}
