package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	reqSchema := compile("req.schema.json")
	respSchema := compile("resp.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"smoke"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"S1",
	  "world_params":{"map_name":"Town05","tick_seconds":0.05,"synchronous":true}
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var req any
	_ = json.Unmarshal([]byte(`{
	  "type":"REQ",
	  "protocol_version":"1.0",
	  "id":7,
	  "cmd":"spawn_actor",
	  "params":{
	    "blueprint_id":"vehicle.coupe.gt",
	    "transform":{"location":{"x":36,"y":-200,"z":0.3},"rotation":{"pitch":0,"yaw":90,"roll":0}}
	  }
	}`), &req)
	validate(reqSchema, req)

	var resp any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESP",
	  "protocol_version":"1.0",
	  "id":7,
	  "ok":true,
	  "result":{"actor_id":12}
	}`), &resp)
	validate(respSchema, resp)

	var respErr any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESP",
	  "protocol_version":"1.0",
	  "id":8,
	  "ok":false,
	  "code":"E_ACTOR_NOT_FOUND",
	  "message":"no actor 99"
	}`), &respErr)
	validate(respSchema, respErr)
}

