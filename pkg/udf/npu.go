package udf

// NPU is the hardware-programming boundary the UDF core drives (§6.2).
type NPU interface {
	CreateGroup(g *Group) (handle uint64, err error)
	DeleteGroup(handle uint64) error

	CreateUDF(u *UDF) (handle uint64, err error)
	DeleteUDF(handle uint64) error
	SetUDFHashMask(handle uint64, mask []byte) error

	CreateMatch(m *Match) (handle uint64, err error)
	DeleteMatch(handle uint64) error
	GetMatchAttribute(handle uint64) (*Match, error)
}
