package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/warp/billboard-engine/generic"
)

// Field aliases seen in billboard records, in priority order. Keys are
// compared case-insensitively.
var billboardAliases = map[string][]string{
	"id":      {"id", "billboard_id"},
	"name":    {"billboard_name", "name"},
	"size":    {"size", "billboard_size"},
	"size_id": {"size_id", "sizeid"},
	"level":   {"level", "billboard_level", "grade"},
	"city":    {"city", "municipality"},
}

// NormalizeBillboard maps a raw record such as {"ID": 7, "Size": "12x4"}
// or {"id": "7", "size": "4*12", "Level": "vip"} to a Billboard.
func NormalizeBillboard(raw map[string]any) generic.Billboard {
	folded := make(map[string]any, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, exists := folded[key]; !exists {
			folded[key] = v
		}
	}

	pick := func(field string) string {
		for _, alias := range billboardAliases[field] {
			if v, ok := folded[alias]; ok {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
		return ""
	}

	b := generic.Billboard{
		ID:    pick("id"),
		Name:  pick("name"),
		Size:  pick("size"),
		Level: pick("level"),
		City:  pick("city"),
	}
	if s := pick("size_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			b.SizeID = &id
		}
	}
	return b
}

// ParseBillboards decodes a JSON array of raw billboard records.
func ParseBillboards(data []byte) ([]generic.Billboard, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]generic.Billboard, len(raw))
	for i, r := range raw {
		out[i] = NormalizeBillboard(r)
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
