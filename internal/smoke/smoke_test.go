package smoke

import (
	"testing"

	"drivesim.dev/internal/scenario"
)

// Each suite scenario runs against a fresh in-process simulator and must pass.
func TestSuite_AllScenariosPass(t *testing.T) {
	for _, sc := range Suite("Town05_Opt") {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			client := newSession(t)
			res := scenario.RunOne(sc, client, testLogger(t), nil)
			if res.Status != scenario.StatusPass {
				t.Fatalf("%s failed: %s", res.Scenario, res.Message)
			}
		})
	}
}

// A shared session must stay usable across scenarios: teardown has to leave
// the world clean enough for whatever runs next.
func TestSuite_SharedSession(t *testing.T) {
	client := newSession(t)
	results := scenario.RunSuite(Suite("Town04"), client, testLogger(t), nil)
	if len(results) == 0 {
		t.Fatalf("empty suite")
	}
	for _, res := range results {
		if res.Status != scenario.StatusPass {
			t.Errorf("%s failed: %s", res.Scenario, res.Message)
		}
	}
}

// Loading an unknown map is a remote error, not a transport failure; the
// session survives it.
func TestSuite_UnknownMapIsRemoteError(t *testing.T) {
	client := newSession(t)
	if err := client.World().LoadWorld("Atlantis"); err == nil {
		t.Fatalf("unknown map accepted")
	}
	if _, err := client.World().Tick(); err != nil {
		t.Fatalf("session unusable after rejected load: %v", err)
	}
}
