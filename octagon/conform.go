package octagon

import "github.com/k-vikingsson/soct/numdom"

// asDomain recovers the concrete *Domain behind a numdom.NumericalDomain,
// which every split-octagon lattice operation requires since the two sides
// of a meet/join/widen must share the same vertex-graph representation
// (spec.md §4.1: array lifters are generic over NumericalDomain, but an
// octagon only ever interoperates with another octagon).
func asDomain(nd numdom.NumericalDomain) *Domain {
	d, ok := nd.(*Domain)
	if !ok {
		numdom.Fatal(numdom.ErrUnknownOperation, "octagon: expected *octagon.Domain, got %T", nd)
	}
	return d
}

// The methods below satisfy numdom.NumericalDomain by delegating to the
// *Domain-typed implementations in lattice.go, transfer.go and octagon.go.

func (d *Domain) Leq(other numdom.NumericalDomain) bool { return d.leq(asDomain(other)) }

func (d *Domain) Join(other numdom.NumericalDomain) numdom.NumericalDomain {
	return d.join(asDomain(other))
}

func (d *Domain) Meet(other numdom.NumericalDomain) numdom.NumericalDomain {
	return d.meet(asDomain(other))
}

func (d *Domain) Widen(other numdom.NumericalDomain) numdom.NumericalDomain {
	return d.widen(asDomain(other))
}

func (d *Domain) WidenThresholds(other numdom.NumericalDomain, ts []int) numdom.NumericalDomain {
	return d.widenThresholds(asDomain(other), ts)
}

func (d *Domain) Narrow(other numdom.NumericalDomain) numdom.NumericalDomain {
	return d.narrow(asDomain(other))
}

var _ numdom.NumericalDomain = (*Domain)(nil)
