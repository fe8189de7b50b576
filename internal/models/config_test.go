package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeConfigItems(t *testing.T) {
	body := `{"items":[
		{"name":"device","descriptions":"Device","attributes_name":"device","options":["cpu","cuda"]},
		{"name":"language","descriptions":"","attributes_name":"lang","options":["en","de"]}
	]}`
	cfg, err := DecodeConfig([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := cfg.Keys(); !reflect.DeepEqual(got, []string{"device", "language"}) {
		t.Fatalf("keys %v", got)
	}
	if cfg.Items[0].Label() != "Device" || cfg.Items[1].Label() != "language" {
		t.Fatalf("labels %q %q", cfg.Items[0].Label(), cfg.Items[1].Label())
	}
	if cfg.Items[1].Attribute != "lang" {
		t.Fatalf("attribute %q", cfg.Items[1].Attribute)
	}
}

func TestDecodeConfigMapSortsKeys(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`{"language":["en","de"],"device":["cpu"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := cfg.Keys(); !reflect.DeepEqual(got, []string{"device", "language"}) {
		t.Fatalf("keys %v", got)
	}
	it, ok := cfg.Lookup("language")
	if !ok || !reflect.DeepEqual(it.Options, []string{"en", "de"}) {
		t.Fatalf("lookup %+v %v", it, ok)
	}
}

func TestDecodeConfigMapWithItemsKey(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`{"items":["a","b"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cfg.Items) != 1 || cfg.Items[0].Name != "items" {
		t.Fatalf("expected a single map entry named items, got %+v", cfg.Items)
	}
}

func TestDecodeConfigMalformed(t *testing.T) {
	for _, body := range []string{`[]`, `{"device":"cpu"}`, `nope`} {
		if _, err := DecodeConfig([]byte(body)); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", body, err)
		}
	}
}

func TestDecodeConfigItemsWithoutName(t *testing.T) {
	body := `{"items":[
		{"name":null,"descriptions":"Beam","attributes_name":"beam_size","options":["1","5"]},
		{"descriptions":"orphan","options":["x"]},
		{"name":"device","options":["cpu"]}
	]}`
	cfg, err := DecodeConfig([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := cfg.Keys(); !reflect.DeepEqual(got, []string{"beam_size", "device"}) {
		t.Fatalf("keys %v", got)
	}
	if cfg.Items[0].Label() != "Beam" {
		t.Fatalf("label %q", cfg.Items[0].Label())
	}
}

func TestEncodeItemsAndMap(t *testing.T) {
	cfg := Config{Items: []Item{
		{Name: "device", Description: "Device", Attribute: "device", Options: []string{"cuda"}},
		{Name: "language", Options: []string{"de"}},
	}}
	data, err := EncodeItems(cfg)
	if err != nil {
		t.Fatalf("encode items: %v", err)
	}
	var items wireItems
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items.Items) != 2 || items.Items[0].Options[0] != "cuda" || items.Items[1].Descriptions != "" {
		t.Fatalf("items body %s", data)
	}

	data, err = EncodeMap(cfg)
	if err != nil {
		t.Fatalf("encode map: %v", err)
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string][]string{"device": {"cuda"}, "language": {"de"}}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("map body %v", m)
	}
}
