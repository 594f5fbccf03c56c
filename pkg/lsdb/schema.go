package lsdb

import (
	"encoding/json"
	"fmt"

	"github.com/pathprobe/pathprobe/pkg/errors"
)

// Normalize decodes a JSON document in any of the parser output variants
// and maps it onto the canonical Database shape.
//
// Supported input variants:
//   - {"router_lsas": [...], "network_lsas": [...], "summary_lsas": [...]}
//   - {"routers": [...], "networks": [...], "summary": [...]}
//
// Within records, key aliases are resolved:
//   - router id: router_id, router, id
//   - links: objects with link_id/link, or bare strings
//   - attached routers: attached_routers or attached; scalars become
//     one-element lists, null becomes an empty list
//   - summary prefix: link_id, link, prefix, adv_router
//   - advertising router: adv_router, adv, advertising_router
func Normalize(data []byte) (*Database, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode JSON document")
	}
	return normalizeMap(raw)
}

func normalizeMap(raw map[string]any) (*Database, error) {
	db := &Database{}

	for _, item := range collection(raw, "router_lsas", "routers") {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		db.RouterLSAs = append(db.RouterLSAs, normalizeRouter(rec))
	}

	for _, item := range collection(raw, "network_lsas", "networks") {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		db.NetworkLSAs = append(db.NetworkLSAs, normalizeNetwork(rec))
	}

	for _, item := range collection(raw, "summary_lsas", "summary") {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		db.SummaryLSAs = append(db.SummaryLSAs, normalizeSummary(rec))
	}

	return db, nil
}

func normalizeRouter(rec map[string]any) RouterLSA {
	out := RouterLSA{
		RouterID: safeID(stringField(rec, "router_id", "router", "id")),
		AreaID:   stringField(rec, "area_id"),
	}
	if out.AreaID == "" {
		out.AreaID = "0"
	}

	links, _ := rec["links"].([]any)
	for _, l := range links {
		switch v := l.(type) {
		case map[string]any:
			link := Link{LinkID: stringField(v, "link_id", "link")}
			if link.LinkID == "" {
				link.LinkID = fmt.Sprint(v)
			}
			link.LinkID = safeID(link.LinkID)
			link.Metric = intField(v, "metric")
			out.Links = append(out.Links, link)
		default:
			out.Links = append(out.Links, Link{LinkID: safeID(fmt.Sprint(v))})
		}
	}
	return out
}

func normalizeNetwork(rec map[string]any) NetworkLSA {
	out := NetworkLSA{
		NetworkID: safeID(stringField(rec, "network_id", "network")),
		AreaID:    stringField(rec, "area_id"),
	}
	if out.AreaID == "" {
		out.AreaID = "0"
	}

	attached := rec["attached_routers"]
	if attached == nil {
		attached = rec["attached"]
	}
	switch v := attached.(type) {
	case nil:
		out.AttachedRouters = []string{}
	case []any:
		for _, a := range v {
			out.AttachedRouters = append(out.AttachedRouters, safeID(fmt.Sprint(a)))
		}
	default:
		out.AttachedRouters = []string{safeID(fmt.Sprint(v))}
	}
	return out
}

func normalizeSummary(rec map[string]any) SummaryLSA {
	out := SummaryLSA{
		Prefix:    safeID(stringField(rec, "link_id", "link", "prefix", "adv_router")),
		AdvRouter: safeID(stringField(rec, "adv_router", "adv", "advertising_router")),
		Metric:    intField(rec, "metric"),
		AreaID:    stringField(rec, "area_id"),
	}
	if out.AreaID == "" {
		out.AreaID = "0"
	}
	return out
}

// safeID blanks identifiers that fail safety validation. Downstream a blank
// identifier materializes an anonymous ghost node, so a hostile ID degrades
// the graph instead of reaching file names or HTML attributes.
func safeID(id string) string {
	if errors.ValidateRouterID(id) != nil {
		return ""
	}
	return id
}

// collection returns the first present list among the given keys.
func collection(raw map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := raw[k].([]any); ok {
			return v
		}
	}
	return nil
}

// stringField returns the first non-empty string value among the given keys.
func stringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// intField returns the value under key as an int, tolerating JSON numbers
// and numeric strings.
func intField(rec map[string]any, key string) int {
	switch v := rec[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
