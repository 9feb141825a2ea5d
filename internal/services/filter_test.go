package services

import (
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func rows(view []models.SalesRecord) []int {
	out := make([]int, len(view))
	for i, rec := range view {
		out[i] = rec.Row
	}
	return out
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name   string
		modify func(*models.FilterSelection)
		want   []int
	}{
		{
			name:   "full selection keeps everything",
			modify: func(*models.FilterSelection) {},
			want:   []int{0, 1, 2, 3, 4},
		},
		{
			name:   "single city",
			modify: func(s *models.FilterSelection) { s.Cities = []string{"Yangon"} },
			want:   []int{0, 2, 3},
		},
		{
			name: "predicates combine with AND",
			modify: func(s *models.FilterSelection) {
				s.Cities = []string{"Yangon"}
				s.Genders = []string{"Male"}
				s.CustomerTypes = []string{"Member"}
			},
			want: []int{3},
		},
		{
			name: "date bounds are inclusive",
			modify: func(s *models.FilterSelection) {
				s.StartDate = day(5)
				s.EndDate = day(8)
			},
			want: []int{0, 1, 4},
		},
		{
			name: "single day range",
			modify: func(s *models.FilterSelection) {
				s.StartDate = day(27)
				s.EndDate = day(27)
			},
			want: []int{3},
		},
		{
			name:   "empty set matches nothing",
			modify: func(s *models.FilterSelection) { s.Genders = []string{} },
			want:   []int{},
		},
		{
			name: "end before start matches nothing",
			modify: func(s *models.FilterSelection) {
				s.StartDate = day(20)
				s.EndDate = day(2)
			},
			want: []int{},
		},
		{
			name:   "unknown value matches nothing",
			modify: func(s *models.FilterSelection) { s.Cities = []string{"Bago"} },
			want:   []int{},
		},
		{
			name: "bounds with a clock component compare by calendar day",
			modify: func(s *models.FilterSelection) {
				s.StartDate = time.Date(2019, time.January, 27, 18, 30, 0, 0, time.UTC)
				s.EndDate = time.Date(2019, time.January, 27, 1, 0, 0, 0, time.UTC)
			},
			want: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := fullSelection()
			tt.modify(&sel)

			got := rows(Filter(records, sel))
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() rows = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Filter() rows = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := rows(records)

	sel := fullSelection()
	sel.Cities = []string{"Mandalay"}
	_ = Filter(records, sel)

	after := rows(records)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input reordered: before %v, after %v", before, after)
		}
	}
}

func TestFilter_SubsetOfInput(t *testing.T) {
	records := sampleRecords()
	sel := fullSelection()
	sel.Cities = []string{"Yangon", "Mandalay"}
	sel.Genders = []string{"Male"}

	seen := make(map[int]bool)
	for _, rec := range records {
		seen[rec.Row] = true
	}
	for _, rec := range Filter(records, sel) {
		if !seen[rec.Row] {
			t.Errorf("row %d not in input", rec.Row)
		}
		if rec.Gender != "Male" {
			t.Errorf("row %d has gender %q", rec.Row, rec.Gender)
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	base := sampleRecords()
	records := make([]models.SalesRecord, 0, len(base)*200)
	for i := 0; i < 200; i++ {
		records = append(records, base...)
	}
	sel := fullSelection()
	sel.Cities = []string{"Yangon"}

	for b.Loop() {
		Filter(records, sel)
	}
}
