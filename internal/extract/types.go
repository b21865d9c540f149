package extract

// Kind is the closed category of an exported declaration.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindConst     Kind = "const"
	KindVariable  Kind = "variable"
)

// ExportedItem is one exported top-level declaration. Signature text is
// sliced verbatim from the source, so a parameter list or heritage clause
// written across lines keeps its newlines; Members is non-empty only for
// classes, interfaces, and enums.
type ExportedItem struct {
	Kind      Kind
	Name      string
	Signature string
	Members   []string
}

// FileIndex is the extraction result for one file. Path is project-relative
// with forward slashes; Exports preserves the document order of the file's
// top-level export statements.
type FileIndex struct {
	Path    string
	Exports []ExportedItem
}

// Skip records a declaration that contributed nothing to the extraction,
// with the reason. Skips are diagnostics only; they never fail a file.
type Skip struct {
	NodeKind string
	Reason   string
}

// result carries either an extracted item or the reason it was skipped.
type result struct {
	item *ExportedItem
	skip string
}

func ok(item ExportedItem) result {
	return result{item: &item}
}

func skipped(reason string) result {
	return result{skip: reason}
}
