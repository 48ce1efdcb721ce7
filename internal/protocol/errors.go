package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command layer.
	ErrBadRequest        = "E_BAD_REQUEST"
	ErrMapNotFound       = "E_MAP_NOT_FOUND"
	ErrBlueprintNotFound = "E_BLUEPRINT_NOT_FOUND"
	ErrActorNotFound     = "E_ACTOR_NOT_FOUND"
	ErrSpawnFailed       = "E_SPAWN_FAILED"
	ErrNotAVehicle       = "E_NOT_A_VEHICLE"
	ErrInternal          = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrBadRequest:        {},
	ErrMapNotFound:       {},
	ErrBlueprintNotFound: {},
	ErrActorNotFound:     {},
	ErrSpawnFailed:       {},
	ErrNotAVehicle:       {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
