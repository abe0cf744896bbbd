package ecs

// EntityID uniquely identifies an entity within one simulation run.
type EntityID uint64

// NilEntity is the zero value; no valid entity has this ID.
const NilEntity EntityID = 0

// Kind partitions ID allocation so each entity family counts independently.
type Kind uint8

const (
	KindEnemy Kind = iota
	KindItem
	KindTrap
	KindWall
	KindFeedback
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindItem:
		return "item"
	case KindTrap:
		return "trap"
	case KindWall:
		return "wall"
	case KindFeedback:
		return "feedback"
	}
	return "unknown"
}
