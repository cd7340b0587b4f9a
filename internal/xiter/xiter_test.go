package xiter

import (
	"slices"
	"strconv"
	"testing"
)

func TestSliceAndCollect(t *testing.T) {
	items := []int{3, 1, 2}
	got := Collect(Slice(items))
	if !slices.Equal(got, items) {
		t.Fatalf("Collect(Slice()) = %v, want %v", got, items)
	}
}

func TestCount(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	if got, want := Count(Slice(items)), 4; got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
}

func TestFlatten(t *testing.T) {
	chunks := [][]int{{1, 2}, nil, {3}, {4, 5}}
	got := Collect(Flatten(Slice(chunks)))
	want := []int{1, 2, 3, 4, 5}
	if !slices.Equal(got, want) {
		t.Fatalf("Flatten() = %v, want %v", got, want)
	}
}

func TestMap(t *testing.T) {
	got := Collect(Map(Slice([]int{1, 20}), strconv.Itoa))
	want := []string{"1", "20"}
	if !slices.Equal(got, want) {
		t.Fatalf("Map() = %v, want %v", got, want)
	}
}

func TestRangeOverFuncEarlyStop(t *testing.T) {
	seq := Flatten(Slice([][]int{{1, 2}, {3, 4}, {5}}))

	sum := 0
	for item := range seq {
		sum += item
		if item == 3 {
			break
		}
	}

	if got, want := sum, 6; got != want {
		t.Fatalf("early stop sum = %d, want %d", got, want)
	}
}
