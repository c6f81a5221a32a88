package types

// Location is the entity granularity data applies to.
type Location string

const (
	Nodal          Location = "Nodal"
	Elemental      Location = "Elemental"
	ElementalNodal Location = "ElementalNodal"
	TimeFreq       Location = "TimeFreq_sets"
	TimeFreqStep   Location = "TimeFreq_steps"
)

// Nature describes the per-entity shape of field data.
type Nature string

const (
	NatureScalar    Nature = "scalar"
	NatureVector    Nature = "vector"
	NatureSymMatrix Nature = "symmatrix"
	NatureMatrix    Nature = "matrix"
)
