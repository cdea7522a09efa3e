package gom

// Ownership tells whether a script-side proxy or a Request holds a
// reference on the Object it wraps.
type Ownership int

const (
	// OwnershipUndecided is resolved to Owning when the wrapper is created.
	OwnershipUndecided Ownership = iota
	Owning
	NonOwning
)

// Resolve returns the effective ownership.
func (o Ownership) Resolve() Ownership {
	if o == OwnershipUndecided {
		return Owning
	}
	return o
}

func (o Ownership) String() string {
	switch o {
	case Owning:
		return "owning"
	case NonOwning:
		return "non-owning"
	default:
		return "undecided"
	}
}
