package constant

// Ecosystem partitions properties into the main and test namespaces.
type Ecosystem uint8

const (
	// EcosystemNone is the explicit "no common ecosystem" sentinel. It is never valid on the wire.
	EcosystemNone Ecosystem = 0
	EcosystemMain Ecosystem = 1
	EcosystemTest Ecosystem = 2
)

const (
	// PropertyNative is the chain's own coin; it belongs to no ecosystem.
	PropertyNative uint32 = 0
	// PropertyMainToken is the primary token of the main ecosystem.
	PropertyMainToken uint32 = 1
	// PropertyTestToken is the primary token of the test ecosystem.
	PropertyTestToken uint32 = 2
	// FirstTestEcosystemProperty is the first identifier allocated to user properties in the test ecosystem.
	FirstTestEcosystemProperty uint32 = 0x80000003
)

// String returns "main", "test" or "none".
func (e Ecosystem) String() string {
	switch e {
	case EcosystemMain:
		return "main"
	case EcosystemTest:
		return "test"
	default:
		return "none"
	}
}

// Valid reports whether e names a real ecosystem.
func (e Ecosystem) Valid() bool {
	return e == EcosystemMain || e == EcosystemTest
}

// EcosystemOf derives the ecosystem from a property identifier alone.
func EcosystemOf(property uint32) Ecosystem {
	switch {
	case property == PropertyNative:
		return EcosystemNone
	case property == PropertyTestToken || property >= FirstTestEcosystemProperty:
		return EcosystemTest
	default:
		return EcosystemMain
	}
}

// SharedEcosystem returns the ecosystem both properties live in, or EcosystemNone when they differ.
func SharedEcosystem(a, b uint32) Ecosystem {
	ea, eb := EcosystemOf(a), EcosystemOf(b)
	if ea != eb {
		return EcosystemNone
	}

	return ea
}
