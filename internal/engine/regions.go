package engine

import "github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"

// Operating regions
const (
	RegionNortheast = "NORTHEAST"
	RegionSoutheast = "SOUTHEAST"
	RegionMidwest   = "MIDWEST"
	RegionSouthwest = "SOUTHWEST"
	RegionWest      = "WEST"
)

// stateRegions maps USPS state codes to operating regions. Read-only.
var stateRegions = map[string]string{
	"CT": RegionNortheast, "DE": RegionNortheast, "DC": RegionNortheast, "ME": RegionNortheast,
	"MD": RegionNortheast, "MA": RegionNortheast, "NH": RegionNortheast, "NJ": RegionNortheast,
	"NY": RegionNortheast, "PA": RegionNortheast, "RI": RegionNortheast, "VT": RegionNortheast,

	"AL": RegionSoutheast, "AR": RegionSoutheast, "FL": RegionSoutheast, "GA": RegionSoutheast,
	"KY": RegionSoutheast, "LA": RegionSoutheast, "MS": RegionSoutheast, "NC": RegionSoutheast,
	"SC": RegionSoutheast, "TN": RegionSoutheast, "VA": RegionSoutheast, "WV": RegionSoutheast,

	"IL": RegionMidwest, "IN": RegionMidwest, "IA": RegionMidwest, "KS": RegionMidwest,
	"MI": RegionMidwest, "MN": RegionMidwest, "MO": RegionMidwest, "NE": RegionMidwest,
	"ND": RegionMidwest, "OH": RegionMidwest, "SD": RegionMidwest, "WI": RegionMidwest,

	"AZ": RegionSouthwest, "NM": RegionSouthwest, "OK": RegionSouthwest, "TX": RegionSouthwest,

	"AK": RegionWest, "CA": RegionWest, "CO": RegionWest, "HI": RegionWest,
	"ID": RegionWest, "MT": RegionWest, "NV": RegionWest, "OR": RegionWest,
	"UT": RegionWest, "WA": RegionWest, "WY": RegionWest,
}

// RegionForState returns the operating region of a state code
func RegionForState(state string) (string, bool) {
	region, ok := stateRegions[models.NormalizeCode(state)]
	return region, ok
}
