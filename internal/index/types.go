package index

// #region document
// Document is a single normalized news article.
type Document struct {
	ID         string
	Ticker     string
	Title      string
	Link       string
	Text       string
	OrderIndex int
}

// #endregion document

// #region index
// Index is an immutable, ordered collection of Documents. Build it once with
// Load; never mutate it afterwards.
type Index struct {
	docs []Document
}

// New builds an Index directly from documents, bypassing dataset loading.
func New(docs []Document) *Index {
	return &Index{docs: docs}
}

// Docs returns the documents in ingestion order.
func (ix *Index) Docs() []Document {
	return ix.docs
}

// Len returns the number of documents in the index.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// #endregion index
