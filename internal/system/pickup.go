package system

import "ipne/internal/component"

// PickupEvent records one collected item.
type PickupEvent struct {
	Item   component.Item
	Healed int
}

// PickupResult aggregates every item collected on one tile.
type PickupResult struct {
	Player      component.Player
	Items       []component.Item
	Events      []PickupEvent
	Healed      int
	LevelUps    int
	MapRevealed bool
	KeyPicked   bool
}

// ResolveItemPickup collects all items on the player's tile. Remaining items
// are returned in a new slice.
func ResolveItemPickup(p component.Player, items []component.Item) PickupResult {
	res := PickupResult{Items: make([]component.Item, 0, len(items))}
	for _, it := range items {
		if it.Pos != p.Pos {
			res.Items = append(res.Items, it)
			continue
		}
		ev := PickupEvent{Item: it}
		if it.Type.IsHealing() {
			ev.Healed = p.MaxHP - p.HP
			if it.Type != component.ItemHealthFull {
				ev.Healed = min(it.HealAmount, ev.Healed)
			}
		}
		switch it.Type {
		case component.ItemLevelUp:
			res.LevelUps++
		case component.ItemMapReveal:
			res.MapRevealed = true
		case component.ItemKey:
			p.HasKey = true
			res.KeyPicked = true
		}
		ev.Healed = max(0, ev.Healed)
		p.HP += ev.Healed
		res.Healed += ev.Healed
		res.Events = append(res.Events, ev)
	}
	res.Player = p
	return res
}
