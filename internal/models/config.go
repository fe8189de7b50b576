package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Item is one configurable attribute of a model.
type Item struct {
	// Name is the machine key sent back to the server.
	Name string
	// Description is the human label; falls back to Name.
	Description string
	// Attribute is the server's attributes_name, informational only.
	Attribute string
	Options   []string
}

// Label returns the text shown next to the dropdown.
func (i Item) Label() string {
	if i.Description != "" {
		return i.Description
	}
	return i.Name
}

// Config is a model configuration in server order.
type Config struct {
	Items []Item
}

// Keys returns the item names in order.
func (c Config) Keys() []string {
	out := make([]string, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Name
	}
	return out
}

// Lookup returns the item with the given name.
func (c Config) Lookup(name string) (Item, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

type wireItem struct {
	Name           string   `json:"name"`
	Descriptions   string   `json:"descriptions"`
	AttributesName string   `json:"attributes_name"`
	Options        []string `json:"options"`
}

type wireItems struct {
	Items []wireItem `json:"items"`
}

// DecodeConfig accepts both the items shape and the flat map shape. Map keys
// are sorted so the form order is stable.
func DecodeConfig(data []byte) (Config, error) {
	data = bytes.TrimSpace(data)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw, ok := probe["items"]; ok && len(probe) == 1 && looksLikeList(raw) {
		var w wireItems
		if err := json.Unmarshal(data, &w); err != nil {
			return Config{}, fmt.Errorf("%w: items: %v", ErrMalformed, err)
		}
		cfg := Config{Items: make([]Item, 0, len(w.Items))}
		for _, it := range w.Items {
			// name is optional on the server; attributes_name stands in, and
			// items with neither cannot be submitted back.
			name := it.Name
			if name == "" {
				name = it.AttributesName
			}
			if name == "" {
				continue
			}
			cfg.Items = append(cfg.Items, Item{
				Name:        name,
				Description: it.Descriptions,
				Attribute:   it.AttributesName,
				Options:     it.Options,
			})
		}
		return cfg, nil
	}

	keys := make([]string, 0, len(probe))
	for k := range probe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cfg := Config{Items: make([]Item, 0, len(keys))}
	for _, k := range keys {
		var opts []string
		if err := json.Unmarshal(probe[k], &opts); err != nil {
			return Config{}, fmt.Errorf("%w: key %q: %v", ErrMalformed, k, err)
		}
		cfg.Items = append(cfg.Items, Item{Name: k, Options: opts})
	}
	return cfg, nil
}

func looksLikeList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return false
	}
	for _, e := range elems {
		if e = bytes.TrimSpace(e); len(e) == 0 || e[0] != '{' {
			return false
		}
	}
	return true
}

// EncodeItems builds the {"items": [...]} change body. Each item carries its
// first option as the selected value.
func EncodeItems(cfg Config) ([]byte, error) {
	w := wireItems{Items: make([]wireItem, 0, len(cfg.Items))}
	for _, it := range cfg.Items {
		opts := it.Options
		if opts == nil {
			opts = []string{}
		}
		w.Items = append(w.Items, wireItem{
			Name:           it.Name,
			Descriptions:   it.Description,
			AttributesName: it.Attribute,
			Options:        opts,
		})
	}
	return json.Marshal(w)
}

// EncodeMap builds the {key: [selected]} change body.
func EncodeMap(cfg Config) ([]byte, error) {
	m := make(map[string][]string, len(cfg.Items))
	for _, it := range cfg.Items {
		opts := it.Options
		if opts == nil {
			opts = []string{}
		}
		m[it.Name] = opts
	}
	return json.Marshal(m)
}
