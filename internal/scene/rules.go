package scene

import "github.com/zeusync/toyfacade/internal/core/toys"

var (
	_ toys.VerificationRule = AllowAll{}
	_ toys.VerificationRule = Allowlist(nil)
	_ toys.DamageSource     = Firearm{}
)

// AllowAll lets anyone interact.
type AllowAll struct{}

func (AllowAll) CanInteract(string) bool { return true }

// Allowlist lets only the listed actors interact.
type Allowlist map[string]struct{}

func NewAllowlist(actors ...string) Allowlist {
	a := make(Allowlist, len(actors))
	for _, actor := range actors {
		a[actor] = struct{}{}
	}
	return a
}

func (a Allowlist) CanInteract(actor string) bool {
	_, ok := a[actor]
	return ok
}

// Firearm is a shot fired by a player.
type Firearm struct {
	Shooter string
	Weapon  string
}

func (f Firearm) Attacker() string { return f.Shooter }
