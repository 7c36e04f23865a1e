package warp

import (
	"testing"
)

func TestTaskVisitsEveryElementOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"empty", 4, 0},
		{"sequential", 1, 10},
		{"more workers than data", 16, 3},
		{"uneven chunks", 3, 10},
		{"zero workers", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]*int, tt.size)
			for i := range data {
				data[i] = new(int)
			}

			task(tt.workers, data, func(v *int) {
				*v++
			})

			for i, v := range data {
				if *v != 1 {
					t.Errorf("Element %d visited %d times, want 1", i, *v)
				}
			}
		})
	}
}
