package component

import (
	"errors"
	"fmt"

	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

// ErrUnknownItemType is returned when an item type tag is not recognized.
var ErrUnknownItemType = errors.New("unknown item type")

// ItemType identifies what a pickup does.
type ItemType uint8

const (
	ItemHealthSmall ItemType = iota
	ItemHealthLarge
	ItemHealthFull
	ItemLevelUp
	ItemMapReveal
	ItemKey
)

var itemTypeNames = map[ItemType]string{
	ItemHealthSmall: "health_small",
	ItemHealthLarge: "health_large",
	ItemHealthFull:  "health_full",
	ItemLevelUp:     "level_up",
	ItemMapReveal:   "map_reveal",
	ItemKey:         "key",
}

func (t ItemType) String() string {
	if s, ok := itemTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ItemType(%d)", uint8(t))
}

// ParseItemType maps a tag such as "health_small" to its ItemType.
func ParseItemType(s string) (ItemType, error) {
	for t, name := range itemTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItemType, s)
}

// IsHealing reports whether the item restores hp.
func (t ItemType) IsHealing() bool {
	return t == ItemHealthSmall || t == ItemHealthLarge || t == ItemHealthFull
}

// Item is a floor pickup. It is removed from its collection when collected.
type Item struct {
	ID         ecs.EntityID
	Pos        gamemap.Position
	Type       ItemType
	HealAmount int
}
