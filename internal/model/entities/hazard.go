package entities

// HazardClass ranks the fire load of a zone following the occupancy hazard
// classes used in sprinkler design.
type HazardClass string

const (
	HazardLight    HazardClass = "light"
	HazardOrdinary HazardClass = "ordinary"
	HazardExtra    HazardClass = "extra"
)

// DesignDensity returns the design discharge density for the class in
// mm/min over the protected area.
func (h HazardClass) DesignDensity() float64 {
	switch h {
	case HazardOrdinary:
		return 6.1
	case HazardExtra:
		return 12.2
	default:
		return 4.1
	}
}

// SprayScale is the factor the head service applies on top of the
// controller's spray length for the zone's fire load.
func (h HazardClass) SprayScale() float64 {
	switch h {
	case HazardOrdinary:
		return 1.25
	case HazardExtra:
		return 1.5
	default:
		return 1.0
	}
}
