package device

import (
	"fmt"
	"strings"
)

// USMType is the kind of unified shared memory an array is allocated in.
type USMType int

// USM allocation kinds, in increasing coercion priority.
const (
	USMHost USMType = iota
	USMShared
	USMDevice
)

// String returns the allocation kind name.
func (u USMType) String() string {
	switch u {
	case USMHost:
		return "host"
	case USMShared:
		return "shared"
	case USMDevice:
		return "device"
	default:
		return "unknown"
	}
}

// ParseUSMType parses an allocation kind name. The empty string selects "device".
func ParseUSMType(s string) (USMType, error) {
	switch strings.ToLower(s) {
	case "device", "":
		return USMDevice, nil
	case "shared":
		return USMShared, nil
	case "host":
		return USMHost, nil
	default:
		return 0, fmt.Errorf("unknown USM type %q, expected one of 'device', 'shared' or 'host'", s)
	}
}

// CoerceUSMType returns the allocation kind of a result computed from
// operands of the given kinds: device beats shared, shared beats host.
func CoerceUSMType(types ...USMType) USMType {
	res := USMHost
	for _, t := range types {
		if t > res {
			res = t
		}
	}
	return res
}
