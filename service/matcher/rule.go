package matcher

import "lfg/model/party"

// CanForm reports whether a full party can be cut from the given queue
// depths: one tank, one healer, three damage.
func CanForm(tanks, healers, damage int) bool {
	return tanks >= party.TanksPerParty &&
		healers >= party.HealersPerParty &&
		damage >= party.DamagePerParty
}

// canForm evaluates the admission predicate over the live queues. The
// predicate is re-evaluated on every attempt, never cached; queue depths
// change between evaluations. Callers must hold s.mu.
func (s *Service) canForm() bool {
	return CanForm(s.tanks.size(), s.healers.size(), s.damage.size())
}

// extract removes exactly one tank, one healer and three damage tokens.
// Callers must hold s.mu and must have confirmed canForm in the same
// critical section, so extraction is all-or-nothing by construction.
func (s *Service) extract() {
	s.tanks.pop()
	s.healers.pop()
	for i := 0; i < party.DamagePerParty; i++ {
		s.damage.pop()
	}
}
