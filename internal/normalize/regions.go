package normalize

import "strings"

// Region names for New Mexico sales territories. RegionOther catches
// cities missing from the mapping.
const (
	RegionNorthern = "Northern New Mexico"
	RegionCentral  = "Central New Mexico"
	RegionSouthern = "Southern New Mexico"
	RegionWestern  = "Western New Mexico"
	RegionEastern  = "Eastern New Mexico"
	RegionOther    = "Other"
	RegionUnknown  = "Unknown"
)

// regionCities maps each region to its cities as they appear in the
// state reports, including known misspellings ("Albquerque").
var regionCities = map[string][]string{
	RegionNorthern: {
		"Santa Fe", "Los Alamos", "Taos", "Espanola", "Las Vegas",
		"White Rock", "Alcalde", "El Prado", "Taos Ski Valley", "Questa",
		"Red River", "Angel Fire", "Chama", "Raton", "Eagle Nest",
		"Mora", "Picuris Pueblo",
	},
	RegionCentral: {
		"Albuquerque", "Albquerque", "Rio Rancho", "Bernalillo", "Los Lunas",
		"Belen", "Bosque Farms", "Corrales", "Los Ranchos", "Placitas",
		"Cedar Crest", "Edgewood", "Moriarty", "Estancia", "Madrid",
		"Peralta", "Rio Communities", "Pena Blanca", "San Ysidro",
	},
	RegionSouthern: {
		"Las Cruces", "Roswell", "Carlsbad", "Alamogordo",
		"Mesilla", "Mesilla Park", "Anthony", "Santa Teresa", "Sunland Park",
		"Hatch", "Arrey", "Truth or Consequences", "Elephant Butte",
		"Silver City", "Deming", "Columbus", "Lordsburg", "Bayard",
		"San Lorenzo", "Vado", "Tularosa", "Cloudcroft", "Ruidoso",
		"Ruidoso Downs", "Carrizozo", "Capitan", "Alto", "Lovington",
		"Hobbs", "Artesia", "Eunice", "Jal", "Loving", "Tatum",
	},
	RegionWestern: {
		"Farmington", "Gallup", "Grants", "Aztec", "Bloomfield", "Kirtland",
		"Cuba", "Milan", "Socorro", "Yah Ta Hey", "Jemez Springs",
	},
	RegionEastern: {
		"Clovis", "Portales", "Tucumcari", "Fort Sumner", "Santa Rosa",
		"Logan", "Clayton", "Vaughn", "Texico", "Glenrio", "Rodeo",
		"Timberon",
	},
}

// regionOrder fixes the display order of regions across the dashboard.
var regionOrder = []string{
	RegionNorthern, RegionCentral, RegionSouthern, RegionWestern, RegionEastern,
}

// RegionForCity resolves a report city to its sales region. Cities not
// in the table fall back to a substring guess against the major metro
// names, then to "Other".
func RegionForCity(city string) string {
	if city == "" {
		return RegionUnknown
	}
	clean := strings.TrimSpace(city)

	for region, cities := range regionCities {
		for _, c := range cities {
			if c == clean {
				return region
			}
		}
	}

	switch {
	case strings.Contains(clean, "Albuquerque") || strings.Contains(strings.ToUpper(clean), "ABQ"):
		return RegionCentral
	case strings.Contains(clean, "Santa Fe"):
		return RegionNorthern
	case strings.Contains(clean, "Las Cruces"):
		return RegionSouthern
	case strings.Contains(clean, "Farmington"):
		return RegionWestern
	}
	return RegionOther
}

// AllRegions returns the named regions in display order, without the
// "Other" bucket.
func AllRegions() []string {
	regions := make([]string, len(regionOrder))
	copy(regions, regionOrder)
	return regions
}

// CitiesInRegion returns the cities mapped to a region, or nil for an
// unknown region name.
func CitiesInRegion(region string) []string {
	cities, ok := regionCities[region]
	if !ok {
		return nil
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}
