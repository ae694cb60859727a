// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles overlap. Touching circles do not collide.
func (c Circle) Collides(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() < r*r
}

// Contains reports whether point lies strictly inside the circle.
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Sub(point).LengthSquared() < c.Radius*c.Radius
}

// Within reports whether the two points are closer than distance.
func Within(a, b Vector2D, distance float64) bool {
	return a.Sub(b).LengthSquared() < distance*distance
}

// Rect represents an axis-aligned rectangle
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectAround returns the square of the given half-size centered on p.
func RectAround(p Vector2D, halfSize float64) Rect {
	return Rect{Center: p, Width: halfSize * 2, Height: halfSize * 2}
}

// Contains checks if a point is inside the rectangle. The max edges are exclusive.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Intersects reports whether two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// BoundsOf returns the smallest rectangle containing every point, grown by margin
// on each side. An empty input yields a zero rectangle.
func BoundsOf(points []Vector2D, margin float64) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{
		Center: Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX + 2*margin,
		Height: maxY - minY + 2*margin,
	}
}

// minCellSize stops subdivision when many objects share one spot.
const minCellSize = 1.0

// QuadTree is a point quadtree used as a broad phase for circle tests.
type QuadTree[T any] struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Objects   []T
	Divided   bool
	NorthWest *QuadTree[T]
	NorthEast *QuadTree[T]
	SouthWest *QuadTree[T]
	SouthEast *QuadTree[T]
}

// NewQuadTree creates a new quadtree node
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Objects:  make([]T, 0, capacity),
	}
}

// Insert adds an object at point. It returns false when the point lies outside
// the tree's boundary.
func (qt *QuadTree[T]) Insert(point Vector2D, object T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if !qt.Divided && (len(qt.Points) < qt.Capacity || qt.Boundary.Width < minCellSize) {
		qt.Points = append(qt.Points, point)
		qt.Objects = append(qt.Objects, object)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, object) ||
		qt.NorthEast.Insert(point, object) ||
		qt.SouthWest.Insert(point, object) ||
		qt.SouthEast.Insert(point, object)
}

// Subdivide splits the node into four quadrants. Objects already held by the
// node stay where they are.
func (qt *QuadTree[T]) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	qt.NorthWest = NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.NorthEast = NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthWest = NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthEast = NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.Divided = true
}

// Query returns all objects whose points fall inside area
func (qt *QuadTree[T]) Query(area Rect) []T {
	return qt.query(area, nil)
}

func (qt *QuadTree[T]) query(area Rect, found []T) []T {
	if !qt.Boundary.Intersects(area) {
		return found
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, qt.Objects[i])
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.query(area, found)
	found = qt.NorthEast.query(area, found)
	found = qt.SouthWest.query(area, found)
	return qt.SouthEast.query(area, found)
}

// Clear empties the tree and resets it to cover boundary.
func (qt *QuadTree[T]) Clear(boundary Rect) {
	qt.Boundary = boundary
	qt.Points = qt.Points[:0]
	clear(qt.Objects)
	qt.Objects = qt.Objects[:0]
	qt.Divided = false
	qt.NorthWest, qt.NorthEast, qt.SouthWest, qt.SouthEast = nil, nil, nil, nil
}

// Len returns the number of objects stored in the tree
func (qt *QuadTree[T]) Len() int {
	n := len(qt.Points)
	if qt.Divided {
		n += qt.NorthWest.Len() + qt.NorthEast.Len() + qt.SouthWest.Len() + qt.SouthEast.Len()
	}
	return n
}
