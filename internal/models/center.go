package models

import "strings"

// Known city codes; a volunteer ID must contain one of them.
const (
	CityMDA = "MDA"
	CityNGP = "NGP"
)

var cityCodes = []string{CityMDA, CityNGP}

// Center is a tutoring location.
type Center struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CityCode  string `json:"cityCode"`
	ShortCode string `json:"shortCode"`
}

// CityCodeFromVolunteerID returns the first known city code found in id.
func CityCodeFromVolunteerID(id string) (string, bool) {
	upper := strings.ToUpper(id)
	best, bestAt := "", -1
	for _, code := range cityCodes {
		if at := strings.Index(upper, code); at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = code, at
		}
	}
	return best, bestAt >= 0
}
