// Package intern deduplicates identifiers and short strings into cheaply
// comparable integer handles. The table is append-only: there is no
// removal and no tombstoning for the lifetime of a program.
package intern

// Name is an opaque handle to an interned string. Equality between two
// Names from the same Table is O(1) and implies equal underlying text.
type Name int

// Table is a single program's interner. It is not safe for concurrent
// use; the evaluator that owns it is single-threaded by design (spec §5).
type Table struct {
	byText []string
	index  map[string]Name
}

// NewTable returns an empty interner.
func NewTable() *Table {
	return &Table{index: make(map[string]Name, 256)}
}

// Intern returns the handle for s, assigning a new one if s was never
// seen before.
func (t *Table) Intern(s string) Name {
	if n, ok := t.index[s]; ok {
		return n
	}
	n := Name(len(t.byText))
	t.byText = append(t.byText, s)
	t.index[s] = n
	return n
}

// Text resolves a handle back to its original text.
func (t *Table) Text(n Name) string {
	return t.byText[n]
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int { return len(t.byText) }
