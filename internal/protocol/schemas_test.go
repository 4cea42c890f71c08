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
	actSchema := compile("act.schema.json")
	resultSchema := compile("result.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "token":"eyJhbGciOiJIUzI1NiJ9.x.y"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"session_1",
	  "hours":42,
	  "gold":1000,
	  "items_digest":"deadbeef",
	  "troops_digest":"deadbeef"
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var act any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"1.0",
	  "req_id":"r1",
	  "op":"TRY_EQUIP",
	  "troop_id":"footman",
	  "set_index":0,
	  "slot":"weapon_0",
	  "item_id":"lance",
	  "allow_purchase":true
	}`), &act)
	validate(actSchema, act)

	var paste any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"1.0",
	  "op":"PASTE_SET",
	  "troop_id":"footman",
	  "set_index":1,
	  "src_troop_id":"footman_f",
	  "src_set_index":0,
	  "allow_purchase":true
	}`), &paste)
	validate(actSchema, paste)

	var okResult any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "req_id":"r1",
	  "ok":true,
	  "staged":true,
	  "gold":900,
	  "quote":{
	    "is_change":true,
	    "delta_add":1,
	    "delta_remove":0,
	    "copies_from_stock":0,
	    "copies_to_buy":1,
	    "gold_cost":100,
	    "would_stage":true
	  }
	}`), &okResult)
	validate(resultSchema, okResult)

	var errResult any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "req_id":"r2",
	  "ok":false,
	  "code":"E_NO_GOLD",
	  "gold":12
	}`), &errResult)
	validate(resultSchema, errResult)

	var pendingResult any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "ok":true,
	  "gold":900,
	  "refunds":{"kettle_helm":1},
	  "pending":[
	    {"set_index":0,"slot":"weapon_0","item_id":"lance","remaining":1,"carry":0}
	  ]
	}`), &pendingResult)
	validate(resultSchema, pendingResult)
}

func TestSchemas_RejectBadSamples(t *testing.T) {
	p := filepath.Join("..", "..", "schemas", "act.schema.json")
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for name, raw := range map[string]string{
		"unknown op":   `{"type":"ACT","protocol_version":"1.0","op":"EXPLODE"}`,
		"bad slot":     `{"type":"ACT","protocol_version":"1.0","op":"TRY_EQUIP","slot":"left_hand"}`,
		"missing op":   `{"type":"ACT","protocol_version":"1.0"}`,
		"extra field":  `{"type":"ACT","protocol_version":"1.0","op":"GET_STAGED","power_level":9001}`,
		"negative set": `{"type":"ACT","protocol_version":"1.0","op":"CREATE_SET","set_index":-1}`,
	} {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("%s: unmarshal: %v", name, err)
		}
		if err := s.Validate(v); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
