// pkg/api/hits_v1.go
package api

// HitV1 is the stable JSON/JSONL schema for kmpfind results.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type HitV1 struct {
	Source    string `json:"source"`
	Record    string `json:"record,omitempty"`
	PatternID string `json:"pattern_id"`
	Pattern   string `json:"pattern"`
	Kind      string `json:"kind"` // "text" | "bytes" | "utf16le" | "utf16be"
	Pos       *int   `json:"pos,omitempty"`
	Count     *int   `json:"count,omitempty"`
}
