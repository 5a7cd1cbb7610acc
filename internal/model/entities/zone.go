package entities

// Zone represents one protected area of the site (a room, an aisle, a rack
// row) and contains one or more sprinkler heads.
type Zone struct {
	ID       string             `json:"id"`        // unique zone identifier
	AreaType string             `json:"area_type"` // e.g. "archive", "server-room"
	Hazard   HazardClass        `json:"hazard"`
	Policy   *SuppressionPolicy `json:"policy,omitempty"` // controller tuning override
	Heads    []Head             `json:"heads"`            // all heads in this zone
}

func (z *Zone) GetHead(headID string) *Head {
	for i := range z.Heads {
		if z.Heads[i].ID == headID {
			return &z.Heads[i]
		}
	}
	return nil
}
