package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCategories(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []Category
		wantErr bool
	}{
		{name: "empty", in: nil, want: []Category{}},
		{name: "dedupe and order", in: []string{"non-veg", "veg", "non-veg"}, want: []Category{CategoryVeg, CategoryNonVeg}},
		{name: "unknown", in: []string{"vegan"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCategories(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRegions(t *testing.T) {
	got, err := NormalizeRegions([]string{"bakery", "chinese", "south-indian", "bakery"})
	require.NoError(t, err)
	require.Equal(t, []Region{RegionSouthIndian, RegionChinese, RegionBakery}, got)

	_, err = NormalizeRegions([]string{"italian"})
	require.Error(t, err)
}
