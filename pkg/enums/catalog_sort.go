package enums

import "strings"

// CatalogSort selects the ordering of catalog listings.
type CatalogSort string

const (
	CatalogSortRecent CatalogSort = "recent"
	CatalogSortRating CatalogSort = "rating"
	CatalogSortTitle  CatalogSort = "title"
)

var validCatalogSorts = []CatalogSort{
	CatalogSortRecent,
	CatalogSortRating,
	CatalogSortTitle,
}

// CatalogSorts returns every supported ordering.
func CatalogSorts() []CatalogSort {
	out := make([]CatalogSort, len(validCatalogSorts))
	copy(out, validCatalogSorts)
	return out
}

func (s CatalogSort) IsValid() bool {
	for _, candidate := range validCatalogSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCatalogSort falls back to CatalogSortRecent for empty or unknown input.
func ParseCatalogSort(value string) CatalogSort {
	s := CatalogSort(strings.ToLower(strings.TrimSpace(value)))
	if s.IsValid() {
		return s
	}
	return CatalogSortRecent
}
