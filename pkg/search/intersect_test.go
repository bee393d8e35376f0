package search

import (
	"reflect"
	"testing"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		sets [][]string
		want []string
	}{
		{
			name: "no sets yields nothing",
			sets: nil,
			want: nil,
		},
		{
			name: "single set passes through deduplicated",
			sets: [][]string{{"a", "b", "a", "c"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "two sets keep common members in first-set order",
			sets: [][]string{{"a", "b", "c"}, {"c", "a"}},
			want: []string{"a", "c"},
		},
		{
			name: "disjoint sets yield nothing",
			sets: [][]string{{"a", "b"}, {"c", "d"}},
			want: nil,
		},
		{
			name: "empty member set annihilates",
			sets: [][]string{{"a", "b"}, nil, {"a"}},
			want: nil,
		},
		{
			name: "three sets",
			sets: [][]string{{"x", "y", "z"}, {"z", "y", "w"}, {"y", "z"}},
			want: []string{"y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.sets)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Intersect(%v) = %v, want %v", tt.sets, got, tt.want)
			}
		})
	}
}
