package types

// FieldsCollection is implemented by FieldsContainer and its split
// specializations, so a result evaluation can hand back whichever the
// configured split selects while callers keep access to the underlying
// container.
type FieldsCollection interface {
	FieldsContainerRef() *FieldsContainer
}

// FieldsContainerRef implements FieldsCollection; the split wrappers
// inherit it through embedding.
func (fc *FieldsContainer) FieldsContainerRef() *FieldsContainer { return fc }
