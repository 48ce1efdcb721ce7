package protocol

import (
	"encoding/json"

	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	MapName     string  `json:"map_name"`
	TickSeconds float64 `json:"tick_seconds"`
	Synchronous bool    `json:"synchronous"`
}

// REQ (client -> server): one command per frame, answered by a RESP with the
// same id. The session is strictly request/response; the client never has
// more than one REQ in flight.
type ReqMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	ID              uint64          `json:"id"`
	Cmd             string          `json:"cmd"`
	Params          json.RawMessage `json:"params,omitempty"`
}

// RESP (server -> client)
type RespMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	ID              uint64          `json:"id"`
	OK              bool            `json:"ok"`
	Code            string          `json:"code,omitempty"`
	Message         string          `json:"message,omitempty"`
	Result          json.RawMessage `json:"result,omitempty"`
}

// Command params/results. One pair per Cmd* constant; commands without a
// result payload answer with an empty RESP result.

type LoadWorldParams struct {
	Map           string `json:"map"`
	ResetSettings bool   `json:"reset_settings"`
}

type LoadWorldResult struct {
	Map  string `json:"map"`
	Tick uint64 `json:"tick"`
}

type BlueprintsParams struct {
	Pattern string `json:"pattern,omitempty"`
}

type BlueprintDef struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type BlueprintsResult struct {
	Blueprints []BlueprintDef `json:"blueprints"`
}

type SpawnActorParams struct {
	BlueprintID string            `json:"blueprint_id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Transform   geom.Transform    `json:"transform"`
}

type SpawnActorResult struct {
	ActorID uint64 `json:"actor_id"`
}

// ActorParams addresses commands that only need a target actor.
type ActorParams struct {
	ActorID uint64 `json:"actor_id"`
}

type TickResult struct {
	Tick uint64 `json:"tick"`
}

type TransformResult struct {
	Transform geom.Transform `json:"transform"`
}

type VelocityResult struct {
	Velocity geom.Vec3 `json:"velocity"`
}

type SetTargetVelocityParams struct {
	ActorID  uint64    `json:"actor_id"`
	Velocity geom.Vec3 `json:"velocity"`
}

type SetEnableGravityParams struct {
	ActorID uint64 `json:"actor_id"`
	Enabled bool   `json:"enabled"`
}

// VehicleControl is a discrete driving input. The simulator latches the last
// applied control across ticks until it is replaced ("sticky control").
type VehicleControl struct {
	Throttle  float64 `json:"throttle"`
	Steer     float64 `json:"steer"`
	Brake     float64 `json:"brake"`
	Handbrake bool    `json:"handbrake"`
	Reverse   bool    `json:"reverse"`
}

type ApplyControlParams struct {
	ActorID uint64         `json:"actor_id"`
	Control VehicleControl `json:"control"`
}

type PhysicsControlResult struct {
	Control physics.Control `json:"control"`
}

type ApplyPhysicsControlParams struct {
	ActorID uint64          `json:"actor_id"`
	Control physics.Control `json:"control"`
}

// DebugDrawParams describes a diagnostic primitive. Purely visual; the
// simulator acknowledges it without any behavioral effect.
type DebugDrawParams struct {
	Shape     string        `json:"shape"`
	Center    geom.Vec3     `json:"center"`
	Extent    geom.Vec3     `json:"extent"`
	Rotation  geom.Rotation `json:"rotation"`
	Color     [3]int        `json:"color"`
	LifeTime  float64       `json:"life_time"`
	Thickness float64       `json:"thickness"`
}
