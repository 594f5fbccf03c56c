package lsdb

// Link is a single link entry inside a router LSA.
type Link struct {
	LinkID string `json:"link_id" bson:"link_id"`
	Metric int    `json:"metric" bson:"metric"`
}

// RouterLSA describes a router link-state advertisement: the advertising
// router, its area, and the links it reports.
type RouterLSA struct {
	RouterID string `json:"router_id" bson:"router_id"`
	AreaID   string `json:"area_id" bson:"area_id"`
	Links    []Link `json:"links" bson:"links"`
}

// NetworkLSA describes a network link-state advertisement: a transit network
// and the routers attached to it.
type NetworkLSA struct {
	NetworkID       string   `json:"network_id" bson:"network_id"`
	AttachedRouters []string `json:"attached_routers" bson:"attached_routers"`
	AreaID          string   `json:"area_id" bson:"area_id"`
}

// SummaryLSA describes an inter-area summary link-state advertisement.
type SummaryLSA struct {
	AdvRouter string `json:"adv_router" bson:"adv_router"`
	Prefix    string `json:"prefix" bson:"prefix"`
	Metric    int    `json:"metric" bson:"metric"`
	AreaID    string `json:"area_id" bson:"area_id"`
}

// SkippedLSA records a malformed record that the parser rejected,
// with enough context to locate it in the source dump.
type SkippedLSA struct {
	Type      string   `json:"type" bson:"type"`
	StartLine int      `json:"start_line" bson:"start_line"`
	EndLine   int      `json:"end_line" bson:"end_line"`
	Reason    string   `json:"reason" bson:"reason"`
	Lines     []string `json:"lines,omitempty" bson:"lines,omitempty"`
}

// Database is the structured form of a parsed OSPF link-state database dump.
// The JSON field names match the files the parser writes and reads back.
type Database struct {
	RouterLSAs  []RouterLSA  `json:"router_lsas" bson:"router_lsas"`
	NetworkLSAs []NetworkLSA `json:"network_lsas" bson:"network_lsas"`
	SummaryLSAs []SummaryLSA `json:"summary_lsas" bson:"summary_lsas"`
	SkippedLSAs []SkippedLSA `json:"skipped_lsas,omitempty" bson:"skipped_lsas,omitempty"`
}

// Stats summarizes record counts for reporting.
type Stats struct {
	Routers   int `json:"routers" bson:"routers"`
	Networks  int `json:"networks" bson:"networks"`
	Summaries int `json:"summaries" bson:"summaries"`
	Skipped   int `json:"skipped" bson:"skipped"`
}

// Stats returns record counts for the database.
func (db *Database) Stats() Stats {
	return Stats{
		Routers:   len(db.RouterLSAs),
		Networks:  len(db.NetworkLSAs),
		Summaries: len(db.SummaryLSAs),
		Skipped:   len(db.SkippedLSAs),
	}
}

// Empty reports whether the database contains no parsed records at all.
func (db *Database) Empty() bool {
	return len(db.RouterLSAs) == 0 && len(db.NetworkLSAs) == 0 && len(db.SummaryLSAs) == 0
}
