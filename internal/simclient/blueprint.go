package simclient

import "drivesim.dev/internal/protocol"

// Blueprint is a spawnable actor template. Attribute writes stay local until
// the blueprint is used in a spawn request.
type Blueprint struct {
	ID string

	attrs map[string]string
	set   map[string]string
}

func newBlueprint(def protocol.BlueprintDef) *Blueprint {
	attrs := make(map[string]string, len(def.Attributes))
	for k, v := range def.Attributes {
		attrs[k] = v
	}
	return &Blueprint{ID: def.ID, attrs: attrs, set: map[string]string{}}
}

// Attribute returns the effective value: a local override if present,
// otherwise the catalog default. Unknown attributes read as "".
func (b *Blueprint) Attribute(name string) string {
	if v, ok := b.set[name]; ok {
		return v
	}
	return b.attrs[name]
}

// SetAttribute overrides an attribute for subsequent spawns of this handle.
func (b *Blueprint) SetAttribute(name, value string) {
	b.set[name] = value
}

func (b *Blueprint) overrides() map[string]string {
	if len(b.set) == 0 {
		return nil
	}
	out := make(map[string]string, len(b.set))
	for k, v := range b.set {
		out[k] = v
	}
	return out
}
