package registry

import "weather-intel/internal/models"

// Registry is the static mapping of logical location name to coordinates.
// It is read-only after construction.
type Registry struct {
	locations []models.Location
	byName    map[string]models.Location
}

// New builds a registry from the given locations.
func New(locations []models.Location) *Registry {
	byName := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		byName[loc.Name] = loc
	}
	return &Registry{locations: locations, byName: byName}
}

// Default returns the four Ithaca-area monitoring sites.
func Default() *Registry {
	return New([]models.Location{
		{Name: "Downtown Ithaca", Latitude: 42.4430, Longitude: -76.5019, Description: "Heart of Ithaca, Commons area"},
		{Name: "Cornell Campus", Latitude: 42.4534, Longitude: -76.4735, Description: "Cornell University campus on East Hill"},
		{Name: "Ithaca College", Latitude: 42.4206, Longitude: -76.4951, Description: "Ithaca College campus on South Hill"},
		{Name: "Cayuga Lake", Latitude: 42.4301, Longitude: -76.5370, Description: "Cayuga Lake waterfront"},
	})
}

// Locations returns all registered locations in declaration order.
func (r *Registry) Locations() []models.Location {
	out := make([]models.Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Lookup finds a location by name.
func (r *Registry) Lookup(name string) (models.Location, bool) {
	loc, ok := r.byName[name]
	return loc, ok
}
