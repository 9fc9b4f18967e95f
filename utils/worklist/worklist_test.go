package worklist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWorklistDeduplicates(t *testing.T) {
	W := Empty[int]()
	for _, x := range []int{1, 2, 1, 3, 2} {
		W.Add(x)
	}

	order := []int{}
	W.Process(func(next int, add func(int)) {
		order = append(order, next)
		// Elements may be added again once processed.
		if next == 1 && len(order) == 1 {
			add(1)
		}
	})

	if diff := cmp.Diff([]int{1, 2, 3, 1}, order); diff != "" {
		t.Errorf("Unexpected processing order (-want +got):\n%s", diff)
	}
}

func TestStartV(t *testing.T) {
	visited := map[int]int{}
	StartV([]int{0, 3, 0}, func(next int, add func(int)) {
		visited[next]++
		for _, succ := range []int{(next + 1) % 5, (next + 2) % 5} {
			if visited[succ] == 0 {
				add(succ)
			}
		}
	})

	if len(visited) != 5 {
		t.Errorf("Expected every element to be visited, got %v", visited)
	}
	if visited[0] != 1 {
		t.Errorf("Expected the duplicated start element to be visited once, got %d", visited[0])
	}
}
