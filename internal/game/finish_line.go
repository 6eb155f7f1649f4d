package game

import "math"

// FinishLine spans every lane and scrolls into view as the player nears the end.
type FinishLine struct {
	Pos    Vec2
	Hitbox Hitbox
}

func NewFinishLine() *FinishLine {
	pos := Vec2{X: 0, Y: ScreenHeight}
	return &FinishLine{
		Pos:    pos,
		Hitbox: NewHitbox(pos.X, pos.Y, ScreenWidth, FinishLineHeight),
	}
}

// Update places the line so that its top edge reaches the player's bow exactly
// when the player crosses. It stays parked just off screen until then.
func (f *FinishLine) Update(playerY, playerDistance float64, raceLength int) {
	y := playerY + BoatHeight + float64(raceLength) - playerDistance - 2*FinishLineHeight
	f.Pos.Y = math.Min(y, ScreenHeight)
	f.Hitbox.Move(f.Pos.X, f.Pos.Y)
}

// Visible reports whether any part of the line is on screen.
func (f *FinishLine) Visible() bool {
	return f.Pos.Y < ScreenHeight
}
