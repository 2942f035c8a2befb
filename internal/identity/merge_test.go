package identity

import (
	"reflect"
	"testing"

	"github.com/fredbr/cocite/internal/paper"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		group []paper.Paper
		want  paper.Paper
	}{
		{
			name:  "empty group",
			group: nil,
			want:  paper.Paper{},
		},
		{
			name: "single record unchanged",
			group: []paper.Paper{
				{DOI: "10.1/a", Title: "A", Source: paper.SourceOpenAlex},
			},
			want: paper.Paper{DOI: "10.1/a", Title: "A", Source: paper.SourceOpenAlex},
		},
		{
			name: "first wins on conflict",
			group: []paper.Paper{
				{Title: "Paper One", Year: 2020, Source: paper.SourceOpenAlex},
				{Title: "paper one (preprint)", Year: 2019, Source: paper.SourceOpenAlex},
			},
			want: paper.Paper{Title: "Paper One", Year: 2020, Source: paper.SourceOpenAlex},
		},
		{
			name: "later record fills gaps",
			group: []paper.Paper{
				{Title: "Paper One", DOI: "10.1/a", Source: paper.SourceOpenAlex},
				{Title: "Paper One", ArXivID: "2101.00001", Venue: "NeurIPS", Year: 2021, Source: paper.SourceS2},
			},
			want: paper.Paper{
				Title:   "Paper One",
				DOI:     "10.1/a",
				ArXivID: "2101.00001",
				Venue:   "NeurIPS",
				Year:    2021,
				Source:  paper.SourceCombined,
			},
		},
		{
			name: "distinct sources combine",
			group: []paper.Paper{
				{Title: "X", Source: paper.SourceOpenAlex},
				{Title: "X", Source: paper.SourceS2},
			},
			want: paper.Paper{Title: "X", Source: paper.SourceCombined},
		},
		{
			name: "same source stays single",
			group: []paper.Paper{
				{Title: "X", Source: paper.SourceS2},
				{Title: "X", Source: paper.SourceS2},
			},
			want: paper.Paper{Title: "X", Source: paper.SourceS2},
		},
		{
			name: "authors from first non-empty list",
			group: []paper.Paper{
				{Title: "X"},
				{Title: "X", Authors: []string{"A. Author", "B. Author"}},
				{Title: "X", Authors: []string{"C. Other"}},
			},
			want: paper.Paper{Title: "X", Authors: []string{"A. Author", "B. Author"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.group)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	group := []paper.Paper{
		{Title: "X", Authors: []string{"A"}},
		{Title: "Y", Authors: []string{"B"}},
	}
	out := Merge(group)

	out.Authors[0] = "mutated"
	if group[0].Authors[0] != "A" {
		t.Error("merge result shares author slice with input")
	}
	if group[1].Title != "Y" {
		t.Error("input record was mutated")
	}
}
