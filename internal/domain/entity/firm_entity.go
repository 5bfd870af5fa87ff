package entity

import (
	"fmt"
	"time"
)

// Category is a dietary tag a firm can carry.
type Category string

const (
	CategoryVeg    Category = "veg"
	CategoryNonVeg Category = "non-veg"
)

// Categories lists every accepted category in canonical order.
var Categories = []Category{CategoryVeg, CategoryNonVeg}

// Region is a cuisine/region tag a firm can carry.
type Region string

const (
	RegionSouthIndian Region = "south-indian"
	RegionNorthIndian Region = "north-indian"
	RegionChinese     Region = "chinese"
	RegionBakery      Region = "bakery"
)

// Regions lists every accepted region in canonical order.
var Regions = []Region{RegionSouthIndian, RegionNorthIndian, RegionChinese, RegionBakery}

// Image references a stored firm image.
type Image struct {
	Name string // object name inside the store
	URL  string
}

// Firm is a restaurant listing owned by exactly one vendor.
type Firm struct {
	ID         string
	Name       string
	Area       string
	Categories []Category
	Regions    []Region
	Offer      string
	Image      *Image
	VendorID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

func IsRegion(s string) bool {
	for _, r := range Regions {
		if string(r) == s {
			return true
		}
	}
	return false
}

// NormalizeCategories dedupes the input and returns it in canonical order.
func NormalizeCategories(in []string) ([]Category, error) {
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !IsCategory(s) {
			return nil, fmt.Errorf("unknown category %q", s)
		}
		seen[s] = true
	}
	out := make([]Category, 0, len(seen))
	for _, c := range Categories {
		if seen[string(c)] {
			out = append(out, c)
		}
	}
	return out, nil
}

// NormalizeRegions dedupes the input and returns it in canonical order.
func NormalizeRegions(in []string) ([]Region, error) {
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !IsRegion(s) {
			return nil, fmt.Errorf("unknown region %q", s)
		}
		seen[s] = true
	}
	out := make([]Region, 0, len(seen))
	for _, r := range Regions {
		if seen[string(r)] {
			out = append(out, r)
		}
	}
	return out, nil
}

func CategoryStrings(cs []Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func RegionStrings(rs []Region) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
