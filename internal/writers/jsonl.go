package writers

import (
	"encoding/json"
	"io"

	"kmputil/internal/report"
	"kmputil/pkg/api"
)

func init() {
	Register(FormatJSONL, Format{Hit: writeJSONLHit})
}

// ToAPIHit converts a hit to the stable v1 schema.
func ToAPIHit(h report.Hit, o Options) api.HitV1 {
	out := api.HitV1{
		Source:    h.Source,
		Record:    h.Record,
		PatternID: h.PatternID,
		Pattern:   h.Pattern,
		Kind:      o.Kind,
	}
	if o.Count {
		n := h.Count
		out.Count = &n
	} else {
		p := h.Pos
		out.Pos = &p
	}
	return out
}

func writeJSONLHit(w io.Writer, h report.Hit, o Options) error {
	// Encoder appends the trailing newline.
	return json.NewEncoder(w).Encode(ToAPIHit(h, o))
}
