package party

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lfg/internal/clock"
)

// Role identifies the queue an actor waits in.
type Role string

const (
	RoleTank   Role = "tank"
	RoleHealer Role = "healer"
	RoleDamage Role = "damage"
)

// Composition of a standard party.
const (
	TanksPerParty   = 1
	HealersPerParty = 1
	DamagePerParty  = 3

	// Size is the total number of actors consumed per party.
	Size = TanksPerParty + HealersPerParty + DamagePerParty
)

// ParseRole converts a textual role name into a Role.
func ParseRole(text string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(text))) {
	case RoleTank:
		return RoleTank, nil
	case RoleHealer:
		return RoleHealer, nil
	case RoleDamage:
		return RoleDamage, nil
	}
	return "", fmt.Errorf("unknown role: %q", text)
}

// Demand describes a batch of actors submitted to the role queues.
type Demand struct {
	Tanks   int `json:"tanks" yaml:"tanks"`
	Healers int `json:"healers" yaml:"healers"`
	Damage  int `json:"damage" yaml:"damage"`
}

// Total returns the number of actors in the batch.
func (d Demand) Total() int {
	return d.Tanks + d.Healers + d.Damage
}

// Validate returns an error when any count is negative.
func (d Demand) Validate() error {
	if d.Tanks < 0 {
		return fmt.Errorf("tanks count must be >= 0, got %d", d.Tanks)
	}
	if d.Healers < 0 {
		return fmt.Errorf("healers count must be >= 0, got %d", d.Healers)
	}
	if d.Damage < 0 {
		return fmt.Errorf("damage count must be >= 0, got %d", d.Damage)
	}
	return nil
}

// Party is the handle returned for an atomically extracted group of actors.
// It carries identity only; the actors themselves are consumed on extraction.
type Party struct {
	ID         string    `json:"id"`
	InstanceID int       `json:"instanceID"`
	FormedAt   time.Time `json:"formedAt"`
}

// New creates a party handle assigned to the given instance.
func New(instanceID int) *Party {
	return &Party{
		ID:         uuid.New().String(),
		InstanceID: instanceID,
		FormedAt:   clock.Now(),
	}
}
