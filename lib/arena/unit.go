package arena

// UnitType is the type descriptor of the empty value. It occupies no bytes and is mostly used as
// the payload of union variants that carry no data.
type UnitType struct{}

// Unit is the descriptor of the empty value
var Unit UnitType

func (UnitType) Strategy() Strategy { return Fixed }

func (UnitType) FixedSize() Ptr { return 0 }

func (UnitType) ReadSize([]byte) (Ptr, error) { return 0, nil }

func (UnitType) Plain() bool { return true }

func (UnitType) Build(b []byte) ([]byte, struct{}, error) { return b, struct{}{}, nil }

func (UnitType) UncheckedBuild(b []byte) ([]byte, struct{}) { return b, struct{}{} }

func (UnitType) ResultSize() (Ptr, error) { return 0, nil }

func (UnitType) Imprint([]byte) error { return nil }

func (UnitType) String() string { return "unit" }
