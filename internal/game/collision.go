package game

// Vec2 is a 2D vector used for positions and velocities.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsZero reports whether both components are within epsilon of zero.
func (v Vec2) IsZero(epsilon float64) bool {
	return v.X*v.X+v.Y*v.Y < epsilon*epsilon
}

// Hitbox is an axis-aligned rectangle anchored at its bottom-left corner.
type Hitbox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewHitbox creates a hitbox at (x, y) with the given size.
func NewHitbox(x, y, width, height float64) Hitbox {
	return Hitbox{X: x, Y: y, Width: width, Height: height}
}

// Move re-anchors the hitbox at (x, y).
func (h *Hitbox) Move(x, y float64) {
	h.X = x
	h.Y = y
}

// CollidesWith reports whether two hitboxes overlap.
func (h Hitbox) CollidesWith(o Hitbox) bool {
	return h.X < o.X+o.Width && h.X+h.Width > o.X &&
		h.Y < o.Y+o.Height && h.Y+h.Height > o.Y
}

// LeavesHorizontally reports whether any part of h lies outside area's x range.
func (h Hitbox) LeavesHorizontally(area Hitbox) bool {
	return h.X < area.X || h.X+h.Width > area.X+area.Width
}

// OutsideVertically reports whether h has fully left area's y range.
func (h Hitbox) OutsideVertically(area Hitbox) bool {
	return h.Y+h.Height < area.Y || h.Y > area.Y+area.Height
}
