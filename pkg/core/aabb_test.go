package core

import (
	"testing"
)

func TestAABB_Corners(t *testing.T) {
	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))
	corners := box.Corners()

	seen := map[Vec3]bool{}
	for i, c := range corners {
		if !box.Contains(c) {
			t.Errorf("Corner %d %v outside box", i, c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("Expected 8 distinct corners, got %d", len(seen))
	}
	if corners[0] != box.Min || corners[7] != box.Max {
		t.Errorf("Expected corners 0 and 7 to be min and max, got %v and %v", corners[0], corners[7])
	}
	if corners[4] != NewVec3(1, -2, -3) {
		t.Errorf("Expected corner 4 to take max X, got %v", corners[4])
	}
}

func TestAABB_EmptyIsUnionIdentity(t *testing.T) {
	box := NewAABB(NewVec3(0, 1, 2), NewVec3(3, 4, 5))
	if got := EmptyAABB().Union(box); got != box {
		t.Errorf("Expected %v, got %v", box, got)
	}
	if EmptyAABB().IsValid() {
		t.Error("Empty box should not be valid")
	}
	if got := EmptyAABB().Grow(NewVec3(1, 1, 1)); got != NewAABB(NewVec3(1, 1, 1), NewVec3(1, 1, 1)) {
		t.Errorf("Grow from empty: got %v", got)
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		size     Vec3
		expected int
	}{
		{NewVec3(3, 1, 1), 0},
		{NewVec3(1, 3, 1), 1},
		{NewVec3(1, 1, 3), 2},
		{NewVec3(0, 0, 0), 2},
	}
	for _, tt := range tests {
		box := NewAABB(NewVec3(0, 0, 0), tt.size)
		if got := box.LongestAxis(); got != tt.expected {
			t.Errorf("Size %v: expected axis %d, got %d", tt.size, tt.expected, got)
		}
	}
}

func TestAABB_CenterOfPoints(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-2, 0, 4), NewVec3(2, 2, 0), NewVec3(0, 1, 2))
	if got := box.Center(); got != NewVec3(0, 1, 2) {
		t.Errorf("Expected center (0,1,2), got %v", got)
	}
	if got := box.Size(); got != NewVec3(4, 2, 4) {
		t.Errorf("Expected size (4,2,4), got %v", got)
	}
}
