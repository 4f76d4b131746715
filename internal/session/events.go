package session

import "github.com/go-gl/mathgl/mgl64"

// Event types published on the session bus.
const (
	EventSurfaceUpserted = "surface.upserted"
	EventSurfaceRemoved  = "surface.removed"
	EventDominoPlaced    = "domino.placed"
	EventChainReset      = "chain.reset"
	EventChainTriggered  = "chain.triggered"
	EventChainState      = "chain.state"
)

type SurfaceEvent struct {
	AnchorID string     `json:"anchor_id"`
	Created  bool       `json:"created,omitempty"`
	Center   mgl64.Vec3 `json:"center"`
	Extent   mgl64.Vec2 `json:"extent"`
}

type PlacedEvent struct {
	DominoID string     `json:"domino_id"`
	Index    int        `json:"index"`
	Position mgl64.Vec3 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Color    string     `json:"color"`
}

type ResetEvent struct {
	Removed int `json:"removed"`
}

type TriggerEvent struct {
	HeadID  string     `json:"head_id"`
	Impulse mgl64.Vec3 `json:"impulse"`
}

type StateEvent struct {
	State  string `json:"state"`
	Length int    `json:"length"`
}
