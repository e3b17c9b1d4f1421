package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeType identifies a collision shape.
type ShapeType uint8

const (
	ShapeBox ShapeType = iota
	ShapeSphere
	ShapeCylinder
	ShapeConvexHull
	ShapeCompound
)

// CollisionShape is the collision geometry built alongside a mesh. Shapes
// are expressed in the owner's local frame, already sized by its world scale
// where the builder applies one. Simulation is left to a physics backend.
type CollisionShape interface {
	ShapeType() ShapeType
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() (lo, hi mgl32.Vec3)
}

// BoxShape is an axis-aligned box centered on the origin.
type BoxShape struct {
	HalfExtents mgl32.Vec3
}

func (b *BoxShape) ShapeType() ShapeType { return ShapeBox }

func (b *BoxShape) Bounds() (lo, hi mgl32.Vec3) {
	return b.HalfExtents.Mul(-1), b.HalfExtents
}

// SphereShape is a sphere centered on the origin.
type SphereShape struct {
	Radius float32
}

func (s *SphereShape) ShapeType() ShapeType { return ShapeSphere }

func (s *SphereShape) Bounds() (lo, hi mgl32.Vec3) {
	r := s.Radius
	return mgl32.Vec3{-r, -r, -r}, mgl32.Vec3{r, r, r}
}

// CylinderShape is a Y-aligned cylinder centered on the origin.
type CylinderShape struct {
	Radius     float32
	HalfHeight float32
}

func (c *CylinderShape) ShapeType() ShapeType { return ShapeCylinder }

func (c *CylinderShape) Bounds() (lo, hi mgl32.Vec3) {
	return mgl32.Vec3{-c.Radius, -c.HalfHeight, -c.Radius}, mgl32.Vec3{c.Radius, c.HalfHeight, c.Radius}
}

// ConvexHullShape is the convex hull of a point cloud.
type ConvexHullShape struct {
	Points []mgl32.Vec3
}

func (h *ConvexHullShape) ShapeType() ShapeType { return ShapeConvexHull }

// AddPoint appends a hull point.
func (h *ConvexHullShape) AddPoint(p mgl32.Vec3) {
	h.Points = append(h.Points, p)
}

func (h *ConvexHullShape) Bounds() (lo, hi mgl32.Vec3) {
	return pointBounds(h.Points)
}

// CompoundChild is one placed sub-shape of a CompoundShape.
type CompoundChild struct {
	Transform mgl32.Mat4
	Shape     CollisionShape
}

// CompoundShape approximates a concave shape with placed convex children.
type CompoundShape struct {
	Children []CompoundChild
}

func (c *CompoundShape) ShapeType() ShapeType { return ShapeCompound }

// AddChildShape places shape at transform. Use mgl32.Ident4 rather than a
// zero matrix for an unplaced child.
func (c *CompoundShape) AddChildShape(transform mgl32.Mat4, shape CollisionShape) {
	c.Children = append(c.Children, CompoundChild{Transform: transform, Shape: shape})
}

func (c *CompoundShape) Bounds() (lo, hi mgl32.Vec3) {
	var corners []mgl32.Vec3
	for _, child := range c.Children {
		clo, chi := child.Shape.Bounds()
		for i := 0; i < 8; i++ {
			p := clo
			if i&1 != 0 {
				p[0] = chi[0]
			}
			if i&2 != 0 {
				p[1] = chi[1]
			}
			if i&4 != 0 {
				p[2] = chi[2]
			}
			corners = append(corners, child.Transform.Mul4x1(p.Vec4(1)).Vec3())
		}
	}
	return pointBounds(corners)
}

func pointBounds(points []mgl32.Vec3) (lo, hi mgl32.Vec3) {
	if len(points) == 0 {
		return lo, hi
	}
	inf := float32(math.Inf(1))
	lo = mgl32.Vec3{inf, inf, inf}
	hi = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
