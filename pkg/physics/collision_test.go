// pkg/physics/collision_test.go
package physics

import (
	"sort"
	"testing"
)

func TestCircle_Collides(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Circle
		expected bool
	}{
		{
			name:     "overlapping",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 10},
			expected: true,
		},
		{
			name:     "touching_is_not_a_hit",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10},
			b:        Circle{Center: Vector2D{X: 20, Y: 0}, Radius: 10},
			expected: false,
		},
		{
			name:     "separated",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			b:        Circle{Center: Vector2D{X: 30, Y: 40}, Radius: 5},
			expected: false,
		},
		{
			name:     "point_inside_radius",
			a:        Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 30},
			b:        Circle{Center: Vector2D{X: 29, Y: 0}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(tt.b); got != tt.expected {
				t.Errorf("Collides() = %v, expected %v", got, tt.expected)
			}
			if got := tt.b.Collides(tt.a); got != tt.expected {
				t.Errorf("Collides() is not symmetric: %v", got)
			}
		})
	}
}

func TestWithin(t *testing.T) {
	if !Within(Vector2D{}, Vector2D{X: 3, Y: 4}, 5.01) {
		t.Error("expected points 5 apart to be within 5.01")
	}
	if Within(Vector2D{}, Vector2D{X: 3, Y: 4}, 5) {
		t.Error("expected points exactly 5 apart not to be within 5")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Center: Vector2D{X: 0, Y: 0}, Width: 10, Height: 10}
	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{"center", Vector2D{}, true},
		{"min_corner_inclusive", Vector2D{X: -5, Y: -5}, true},
		{"max_edge_exclusive", Vector2D{X: 5, Y: 0}, false},
		{"outside", Vector2D{X: 7, Y: 7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	points := []Vector2D{{X: -10, Y: 5}, {X: 30, Y: -15}, {X: 0, Y: 0}}
	r := BoundsOf(points, 1)

	for _, p := range points {
		if !r.Contains(p) {
			t.Errorf("BoundsOf() rect %v does not contain %v", r, p)
		}
	}
	if r.Width != 42 || r.Height != 22 {
		t.Errorf("BoundsOf() size = %vx%v, expected 42x22", r.Width, r.Height)
	}
	if (BoundsOf(nil, 5) != Rect{}) {
		t.Error("BoundsOf(nil) should be the zero rect")
	}
}

func TestQuadTree_InsertAndQuery(t *testing.T) {
	qt := NewQuadTree[int](Rect{Center: Vector2D{}, Width: 100, Height: 100}, 2)

	points := []Vector2D{
		{X: -40, Y: -40},
		{X: -30, Y: -35},
		{X: 10, Y: 10},
		{X: 20, Y: 15},
		{X: 40, Y: -40},
	}
	for i, p := range points {
		if !qt.Insert(p, i) {
			t.Fatalf("Insert(%v) failed", p)
		}
	}

	if !qt.Divided {
		t.Error("QuadTree should be divided after exceeding capacity")
	}
	if qt.Len() != len(points) {
		t.Errorf("Len() = %d, expected %d", qt.Len(), len(points))
	}

	t.Run("outside_boundary_rejected", func(t *testing.T) {
		if qt.Insert(Vector2D{X: 100, Y: 100}, 99) {
			t.Error("Insert should fail outside the boundary")
		}
	})

	t.Run("query_region", func(t *testing.T) {
		got := qt.Query(Rect{Center: Vector2D{X: 15, Y: 12}, Width: 20, Height: 20})
		sort.Ints(got)
		if len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Errorf("Query() = %v, expected [2 3]", got)
		}
	})

	t.Run("query_everything", func(t *testing.T) {
		got := qt.Query(Rect{Center: Vector2D{}, Width: 200, Height: 200})
		if len(got) != len(points) {
			t.Errorf("Query() returned %d objects, expected %d", len(got), len(points))
		}
	})
}

func TestQuadTree_StackedPoints(t *testing.T) {
	qt := NewQuadTree[int](Rect{Center: Vector2D{}, Width: 64, Height: 64}, 1)
	for i := 0; i < 50; i++ {
		if !qt.Insert(Vector2D{X: 3, Y: 3}, i) {
			t.Fatalf("Insert #%d failed", i)
		}
	}
	if got := len(qt.Query(RectAround(Vector2D{X: 3, Y: 3}, 1))); got != 50 {
		t.Errorf("Query() = %d objects, expected 50", got)
	}
}

func TestQuadTree_Clear(t *testing.T) {
	qt := NewQuadTree[string](Rect{Center: Vector2D{}, Width: 10, Height: 10}, 1)
	qt.Insert(Vector2D{X: 1, Y: 1}, "a")
	qt.Insert(Vector2D{X: -1, Y: -1}, "b")

	next := Rect{Center: Vector2D{X: 100, Y: 100}, Width: 10, Height: 10}
	qt.Clear(next)

	if qt.Len() != 0 || qt.Divided {
		t.Errorf("Clear() left %d objects, divided=%v", qt.Len(), qt.Divided)
	}
	if qt.Boundary != next {
		t.Errorf("Clear() boundary = %v, expected %v", qt.Boundary, next)
	}
	if !qt.Insert(Vector2D{X: 101, Y: 99}, "c") {
		t.Error("Insert into the new boundary failed")
	}
}

func BenchmarkQuadTree_Insert(b *testing.B) {
	qt := NewQuadTree[int](Rect{Center: Vector2D{}, Width: 1000, Height: 1000}, 4)
	for i := 0; i < b.N; i++ {
		qt.Insert(Vector2D{X: float64(i%1000) - 500, Y: float64(i%997) - 498}, i)
	}
}
