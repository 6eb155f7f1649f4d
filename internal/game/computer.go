package game

import "math/rand"

// ComputerSteering is the decision logic of a CPU boat. Its rank is the finish
// position it is biased towards: it scales both the boat's speed and how far
// ahead the boat looks for obstacles.
type ComputerSteering struct {
	Rank  int
	State CPUState

	awareness  Hitbox
	xOffset    float64
	yOffset    float64
	randomWait float64
	waiting    bool
	settings   Settings
}

// NewComputerBoat creates a CPU boat biased towards finishing at rank. Ranks
// below 2 are treated as 2 since rank 1 belongs to nobody in particular.
func NewComputerBoat(t BoatType, lane *Lane, name string, rank int, settings Settings) *Boat {
	if rank < 2 {
		rank = 2
	}
	c := &ComputerSteering{
		Rank:     rank,
		State:    CPUCruising,
		xOffset:  float64(BoatWidth) / float64(rank),
		yOffset:  float64(BoatHeight) / float64(rank),
		settings: settings,
	}
	b := newBoat(t, lane, name, settings, c)
	b.speed = t.Speed() * SpeedMultiplier(rank)
	c.awareness = NewHitbox(b.Pos.X-c.xOffset, b.Pos.Y, BoatWidth+2*c.xOffset, BoatHeight+2*c.yOffset)
	return b
}

// SpeedMultiplier draws the fraction of its type's speed a CPU boat races at.
// Better ranks race closer to full speed.
func SpeedMultiplier(rank int) float64 {
	switch rank {
	case 2:
		return 0.95 + rand.Float64()*0.03
	case 3:
		return 0.90 + rand.Float64()*0.07
	default:
		return 0.85 + rand.Float64()*0.05
	}
}

// Awareness returns the area in which the boat reacts to obstacles.
func (c *ComputerSteering) Awareness() Hitbox { return c.awareness }

// Waiting reports whether the boat is resting to rebuild stamina.
func (c *ComputerSteering) Waiting() bool { return c.waiting }

func (c *ComputerSteering) Steer(b *Boat, dt float64) {
	c.awareness.Move(b.Pos.X-c.xOffset, b.Pos.Y)

	if b.RecentCollision {
		c.recover(b, dt)
	} else {
		c.decide(b, dt)
		b.CheckPowerUpCollisions()
		if b.CheckObstacleCollisions() {
			b.RecentCollision = true
		}
	}

	if b.Stamina > c.randomWait {
		c.waiting = false
	}
}

func (c *ComputerSteering) recover(b *Boat, dt float64) {
	c.State = CPUCollisionRecovery
	b.Vel = Vec2{X: 0, Y: c.settings.CollisionPenalty}
	b.CollisionTime += dt
	if b.CollisionTime > c.settings.CollisionRecovery {
		b.RecentCollision = false
		b.CollisionTime = 0
	}
}

func (c *ComputerSteering) decide(b *Boat, dt float64) {
	speed := b.Speed()

	if o := c.nearestObstacle(b); o != nil {
		c.State = CPUAvoidingObstacle
		b.Vel = Vec2{X: speed * c.dodge(b, o.Pos.X), Y: speed}
		b.regenerateStamina()
		return
	}

	if p := c.nearestPowerUp(b); p != nil {
		c.State = CPUSeekingPowerUp
		b.Vel = Vec2{X: speed * c.chase(b, p.Pos.X), Y: speed}
		b.regenerateStamina()
		return
	}

	if !c.waiting {
		b.Vel.X = 0
		if b.spendStamina(dt) {
			c.State = CPUCruising
			b.Vel.Y = speed + speed*b.velocityPercentage()
			return
		}
		c.randomWait = b.MaxStamina/2 + rand.Float64()*b.MaxStamina/2
		c.waiting = true
	}

	c.State = CPUStaminaWaiting
	b.Vel.Y = speed
	b.regenerateStamina()
}

// nearestObstacle returns the lowest obstacle inside the awareness area.
func (c *ComputerSteering) nearestObstacle(b *Boat) *Obstacle {
	var nearest *Obstacle
	for _, o := range b.lane.Obstacles() {
		if !o.Hitbox.CollidesWith(c.awareness) {
			continue
		}
		if nearest == nil || o.Pos.Y < nearest.Pos.Y {
			nearest = o
		}
	}
	return nearest
}

// nearestPowerUp returns the lowest power-up in the band just ahead of the boat.
func (c *ComputerSteering) nearestPowerUp(b *Boat) *PowerUp {
	limit := b.Pos.Y + ScreenHeight*PowerUpLookAhead
	var nearest *PowerUp
	for _, p := range b.lane.PowerUps() {
		if p.Pos.Y+PowerUpHeight < b.Pos.Y || p.Pos.Y >= limit {
			continue
		}
		if nearest == nil || p.Pos.Y < nearest.Pos.Y {
			nearest = p
		}
	}
	return nearest
}

// wallDirection pushes the boat back towards the middle of its lane when it
// hugs a wall. ok is false when the boat is clear of both walls.
func wallDirection(b *Boat) (dir float64, ok bool) {
	area := b.lane.Area()
	if b.Pos.X-LaneWallMargin < area.X {
		return 1, true
	}
	if b.Pos.X+BoatWidth+LaneWallMargin > area.X+area.Width {
		return -1, true
	}
	return 0, false
}

// dodge returns the lateral direction that moves the boat away from x.
func (c *ComputerSteering) dodge(b *Boat, x float64) float64 {
	if dir, ok := wallDirection(b); ok {
		return dir
	}
	switch {
	case x == b.Pos.X:
		return 0
	case x < b.Pos.X:
		return 1
	default:
		return -1
	}
}

// chase returns the lateral direction that moves the boat towards x.
func (c *ComputerSteering) chase(b *Boat, x float64) float64 {
	if dir, ok := wallDirection(b); ok {
		return dir
	}
	switch {
	case x == b.Pos.X:
		return 0
	case x < b.Pos.X:
		return -1
	default:
		return 1
	}
}

// Place positions the boat on screen by how far it is ahead of or behind the
// player. Once the player has started moving up the screen the gap is halved.
func (c *ComputerSteering) Place(b *Boat, view RaceView) {
	gap := BoatBaseY - (view.PlayerDistance - b.DistanceTravelled)
	if view.PlayerY == BoatBaseY {
		b.Pos.Y = gap
		return
	}
	b.Pos.Y = view.PlayerY + gap/2
}
