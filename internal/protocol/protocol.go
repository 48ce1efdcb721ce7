package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeReq     = "REQ"
	TypeResp    = "RESP"
)

// Simulator commands carried by REQ frames.
const (
	CmdLoadWorld           = "load_world"
	CmdBlueprints          = "blueprints"
	CmdSpawnActor          = "spawn_actor"
	CmdDestroyActor        = "destroy_actor"
	CmdTick                = "tick"
	CmdGetTransform        = "get_transform"
	CmdGetVelocity         = "get_velocity"
	CmdSetTargetVelocity   = "set_target_velocity"
	CmdSetEnableGravity    = "set_enable_gravity"
	CmdApplyControl        = "apply_control"
	CmdGetPhysicsControl   = "get_physics_control"
	CmdApplyPhysicsControl = "apply_physics_control"
	CmdDebugDraw           = "debug_draw"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
