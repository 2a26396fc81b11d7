package sections

import (
	"encoding/json"

	"github.com/goliatone/go-sitecms/internal/content"
)

// DeepMerge overlays overlay onto base. Nested objects merge key by key;
// arrays and scalars in overlay replace the base value; nil overlay values
// keep the base value. Neither input is modified.
func DeepMerge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		if value == nil {
			continue
		}
		nested, isMap := value.(map[string]any)
		current, baseIsMap := out[key].(map[string]any)
		if isMap && baseIsMap {
			out[key] = DeepMerge(current, nested)
			continue
		}
		out[key] = value
	}
	return out
}

// Resolve decodes the section stored under key over def. Fields the editor
// left out keep their default values. When nothing usable is stored, def is
// returned unchanged.
func Resolve[T any](page content.Page, key string, def T) T {
	stored, ok := page.Raw(key)
	if !ok {
		return def
	}
	base, err := toMap(def)
	if err != nil {
		return def
	}
	merged, err := json.Marshal(DeepMerge(base, stored))
	if err != nil {
		return def
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return def
	}
	return out
}

func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
