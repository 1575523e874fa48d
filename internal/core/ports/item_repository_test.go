package ports

import (
	"math"
	"testing"
)

func TestPageRequest_Offset(t *testing.T) {
	cases := []struct {
		name string
		page PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 0, Size: 20}, 0},
		{"third page", PageRequest{Page: 2, Size: 20}, 40},
		{"negative page", PageRequest{Page: -3, Size: 20}, 0},
		{"zero size", PageRequest{Page: 5, Size: 0}, 0},
		{"saturates", PageRequest{Page: math.MaxInt / 2, Size: 4}, math.MaxInt},
		{"largest exact", PageRequest{Page: math.MaxInt / 2000, Size: 2000}, (math.MaxInt / 2000) * 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.page.Offset(); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
