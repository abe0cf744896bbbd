package game

import "fmt"

// EffectKind is the external collaborator an effect is addressed to.
type EffectKind uint8

const (
	KindSound EffectKind = iota
	KindDisplay
	KindSave
)

func (k EffectKind) String() string {
	switch k {
	case KindSound:
		return "sound"
	case KindDisplay:
		return "display"
	case KindSave:
		return "save"
	}
	return fmt.Sprintf("EffectKind(%d)", uint8(k))
}

// EffectType is the closed set of effects a tick can emit.
type EffectType uint8

const (
	SoundPlayerDamage EffectType = iota
	SoundItemPickup
	SoundHeal
	SoundTrapTriggered
	SoundLevelUp
	SoundDodge
	SoundKeyPickup
	SoundTeleport
	SoundDying
	DisplayMapRevealed
	DisplayGameOver
	SaveRecord
)

var effectTypeNames = [...]string{
	SoundPlayerDamage:  "player_damage",
	SoundItemPickup:    "item_pickup",
	SoundHeal:          "heal",
	SoundTrapTriggered: "trap_triggered",
	SoundLevelUp:       "level_up",
	SoundDodge:         "dodge",
	SoundKeyPickup:     "key_pickup",
	SoundTeleport:      "teleport",
	SoundDying:         "dying",
	DisplayMapRevealed: "map_revealed",
	DisplayGameOver:    "game_over",
	SaveRecord:         "record",
}

func (t EffectType) String() string {
	if int(t) < len(effectTypeNames) {
		return effectTypeNames[t]
	}
	return fmt.Sprintf("EffectType(%d)", uint8(t))
}

// Kind returns the collaborator the effect type belongs to.
func (t EffectType) Kind() EffectKind {
	switch t {
	case DisplayMapRevealed, DisplayGameOver:
		return KindDisplay
	case SaveRecord:
		return KindSave
	}
	return KindSound
}

// Effect is one record for the sound, display or save layer to realize.
type Effect struct {
	Kind EffectKind
	Type EffectType
}

func (e Effect) String() string { return e.Kind.String() + "/" + e.Type.String() }

// NewEffect builds the effect record for t.
func NewEffect(t EffectType) Effect { return Effect{Kind: t.Kind(), Type: t} }

// HasEffect reports whether effects contains t.
func HasEffect(effects []Effect, t EffectType) bool {
	for _, e := range effects {
		if e.Type == t {
			return true
		}
	}
	return false
}
