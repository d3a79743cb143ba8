package common

type Module string

const (
	ModuleCRC20 Module = "crc20"
)

func (m Module) String() string {
	return string(m)
}
