// Package span assigns opaque identifiers to byte ranges within a source
// and resolves them back to line/column information for diagnostics.
package span

// Context identifies one loaded source (a file path or a synthetic name
// such as "<cmdline>").
type Context struct {
	Name string
	Data string
}

// Span is an opaque handle into a Manager. Two spans are equal only if
// they are the same handle; spans are never compared by the byte ranges
// they represent.
type Span struct {
	id int
}

// IsZero reports whether s was never assigned by a Manager.
func (s Span) IsZero() bool { return s.id == 0 }

type entry struct {
	ctx        *Context
	start, end int
}

// Manager owns every Context and Span created for a single evaluation
// session. It never reclaims entries: spans are cheap, append-only
// handles for the lifetime of the program.
type Manager struct {
	entries []entry
}

// NewManager returns an empty span manager.
func NewManager() *Manager {
	// entries[0] is reserved so the zero Span value is never valid.
	return &Manager{entries: make([]entry, 1, 64)}
}

// NewContext returns a handle for a new source. The Manager keeps no
// record of it; spans made with Make point at it.
func (m *Manager) NewContext(name, data string) *Context {
	return &Context{Name: name, Data: data}
}

// Make assigns a new span for the half-open byte range [start, end) in ctx.
func (m *Manager) Make(ctx *Context, start, end int) Span {
	id := len(m.entries)
	m.entries = append(m.entries, entry{ctx: ctx, start: start, end: end})
	return Span{id: id}
}

// Resolve returns the context and byte range a span was created from.
func (m *Manager) Resolve(s Span) (*Context, int, int) {
	e := m.entries[s.id]
	return e.ctx, e.start, e.end
}

// Position is a 1-based line/column pair, suitable for diagnostics.
type Position struct {
	Line   int
	Column int
}

// PositionOf computes the line/column of a byte offset within ctx's data.
func PositionOf(ctx *Context, offset int) Position {
	line, col := 1, 1
	for i := 0; i < offset && i < len(ctx.Data); i++ {
		if ctx.Data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// Start returns the start position of a span, for diagnostics.
func (m *Manager) Start(s Span) Position {
	ctx, start, _ := m.Resolve(s)
	return PositionOf(ctx, start)
}

// End returns the end position of a span, for diagnostics.
func (m *Manager) End(s Span) Position {
	ctx, _, end := m.Resolve(s)
	return PositionOf(ctx, end)
}

// Text returns the source text covered by a span.
func (m *Manager) Text(s Span) string {
	ctx, start, end := m.Resolve(s)
	if start < 0 || end > len(ctx.Data) || start > end {
		return ""
	}
	return ctx.Data[start:end]
}
