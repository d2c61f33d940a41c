package module

// SourceType tags why a module instantiation or chunk load was requested.
type SourceType uint8

const (
	SourceUnknown SourceType = iota
	// SourceRuntime means the module is a runtime entry of a chunk.
	SourceRuntime
	// SourceParent means the module was required by another module.
	SourceParent
)

func (t SourceType) String() string {
	switch t {
	case SourceRuntime:
		return "runtime"
	case SourceParent:
		return "parent"
	default:
		return "unknown"
	}
}

// Provenance records the origin of a request for diagnostics only.
type Provenance struct {
	Type      SourceType
	ChunkPath string
	ParentID  string
}

// RuntimeEntry tags a request made for a root-level entry of chunkPath.
func RuntimeEntry(chunkPath string) Provenance {
	return Provenance{Type: SourceRuntime, ChunkPath: chunkPath}
}

// ParentImport tags a request made while instantiating parentID.
func ParentImport(parentID string) Provenance {
	return Provenance{Type: SourceParent, ParentID: parentID}
}

// InstantiationReason completes "module X was instantiated ...".
func (p Provenance) InstantiationReason() string {
	switch p.Type {
	case SourceRuntime:
		return "as a runtime entry of chunk " + p.ChunkPath
	case SourceParent:
		return "because it was required from module " + p.ParentID
	default:
		return "for an unknown reason"
	}
}

// LoadReason completes "failed to load chunk X ...".
func (p Provenance) LoadReason() string {
	switch p.Type {
	case SourceRuntime:
		return "from runtime for chunk " + p.ChunkPath
	case SourceParent:
		return "from module " + p.ParentID
	default:
		return "from an unknown source"
	}
}

func (p Provenance) String() string {
	return p.InstantiationReason()
}
