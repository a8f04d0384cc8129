package document

// Document is any collection entry keyed by the numeric product-style
// identifier stored in _id.
type Document interface {
	GetID() int64
}
