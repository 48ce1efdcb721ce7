package smoke

import (
	"drivesim.dev/internal/scenario"
)

// Suite returns the full scenario battery in run order. Physics round-trips
// first (cheap, catch wiring problems early), then the motion scenarios.
func Suite(mapName string) []scenario.Scenario {
	return []scenario.Scenario{
		{Name: "apply_physics_single", Run: func(r *scenario.Run) error {
			if err := r.World.LoadWorld(mapName); err != nil {
				return err
			}
			return applyPhysicsSingle(r)
		}},
		{Name: "apply_physics_multiple", Run: func(r *scenario.Run) error {
			if err := r.World.LoadWorld(mapName); err != nil {
				return err
			}
			return applyPhysicsMultiple(r)
		}},
		{Name: "zero_friction", Run: func(r *scenario.Run) error {
			return vehicleZeroFriction(r, mapName)
		}},
		{Name: "friction_volume", Run: func(r *scenario.Run) error {
			return vehicleFrictionVolume(r, mapName)
		}},
		{Name: "friction_values", Run: func(r *scenario.Run) error {
			return vehicleFrictionValues(r, mapName)
		}},
		{Name: "tire_long_stiff", Run: func(r *scenario.Run) error {
			return tireLongStiff(r, mapName)
		}},
		{Name: "wheel_sweep_collision", Run: func(r *scenario.Run) error {
			return wheelSweepCollision(r, mapName)
		}},
		{Name: "sticky_control", Run: func(r *scenario.Run) error {
			return stickyControl(r, mapName)
		}},
	}
}
