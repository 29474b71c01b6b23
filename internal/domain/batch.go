package domain

// AssetRef is a region resolved to its uploaded location.
type AssetRef struct {
	Region Region

	// Name is the generated asset file name
	Name string

	// URL is the public location of the uploaded asset
	URL string
}

// Batch is the set of asset references for one document.
// Regions that failed to materialize are never added, so their original
// text stays untouched when the batch is applied.
type Batch struct {
	Refs []AssetRef
}

// NewBatch creates a new empty batch.
func NewBatch() *Batch {
	return &Batch{Refs: make([]AssetRef, 0)}
}

// Add appends a resolved region to the batch.
func (b *Batch) Add(ref AssetRef) {
	b.Refs = append(b.Refs, ref)
}

// Size returns the number of references in the batch.
func (b *Batch) Size() int {
	return len(b.Refs)
}

// Empty returns true if the batch has no references.
func (b *Batch) Empty() bool {
	return len(b.Refs) == 0
}
