package simstub

import (
	"path"

	"drivesim.dev/internal/geom"
	"drivesim.dev/internal/physics"
	"drivesim.dev/internal/protocol"
)

// TriggerFrictionID is the blueprint for a friction-override volume actor.
const TriggerFrictionID = "static.trigger.friction"

type blueprintSpec struct {
	ID         string
	Attributes map[string]string
	Wheels     int
	Defaults   func() physics.Control
}

func vehicleDefaults(mass, maxRPM float64, wheels int) func() physics.Control {
	return func() physics.Control {
		c := physics.Control{
			MaxRPM:          maxRPM,
			MOI:             1,
			DragCoefficient: 0.3,
			Mass:            mass,
			CenterOfMass:    geom.Vec3{X: 0.1, Y: 0, Z: -0.3},
		}
		for i := 0; i < wheels; i++ {
			w := physics.WheelControl{
				TireFriction:   3.5,
				DampingRate:    0.25,
				RadiusCM:       35,
				MaxBrakeTorque: 1500,
				LongStiffness:  1000,
			}
			// Front axle steers.
			if i < 2 {
				w.MaxSteerAngle = 70
			}
			c.Wheels = append(c.Wheels, w)
		}
		return c
	}
}

var catalog = []blueprintSpec{
	{
		ID:         "vehicle.sedan.base",
		Attributes: map[string]string{"number_of_wheels": "4"},
		Wheels:     4,
		Defaults:   vehicleDefaults(1500, 5800, 4),
	},
	{
		ID:         "vehicle.coupe.gt",
		Attributes: map[string]string{"number_of_wheels": "4"},
		Wheels:     4,
		Defaults:   vehicleDefaults(1350, 7200, 4),
	},
	{
		ID:         "vehicle.truck.box",
		Attributes: map[string]string{"number_of_wheels": "4"},
		Wheels:     4,
		Defaults:   vehicleDefaults(4200, 3600, 4),
	},
	{
		ID:         "vehicle.bike.road",
		Attributes: map[string]string{"number_of_wheels": "2"},
		Wheels:     2,
		Defaults:   vehicleDefaults(180, 9000, 2),
	},
	{
		ID: TriggerFrictionID,
		Attributes: map[string]string{
			"friction": "3.5",
			"extent_x": "100.0",
			"extent_y": "100.0",
			"extent_z": "100.0",
		},
	},
}

func findBlueprint(id string) *blueprintSpec {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

func matchBlueprints(pattern string) []protocol.BlueprintDef {
	var out []protocol.BlueprintDef
	for _, spec := range catalog {
		if pattern != "" {
			if ok, err := path.Match(pattern, spec.ID); err != nil || !ok {
				continue
			}
		}
		attrs := make(map[string]string, len(spec.Attributes))
		for k, v := range spec.Attributes {
			attrs[k] = v
		}
		out = append(out, protocol.BlueprintDef{ID: spec.ID, Attributes: attrs})
	}
	return out
}
