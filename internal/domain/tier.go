package domain

// Tier is an intensity class used to attribute track segments and time.
type Tier int

const (
	TierAny Tier = iota
	TierTC
	TierTS
	TierHU
	TierMHU
)

// Holds reports whether o satisfies the tier.
func (t Tier) Holds(o Observation) bool {
	switch t {
	case TierAny:
		return true
	case TierTC:
		return o.IsTropical()
	case TierTS:
		return o.Status.IsStormStrength()
	case TierHU:
		return o.Status == StatusHurricane
	case TierMHU:
		return o.IsMajor()
	}
	return false
}

var tiers = [...]Tier{TierAny, TierTC, TierTS, TierHU, TierMHU}
