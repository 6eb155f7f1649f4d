package game

import "math"

// Steering decides a boat's velocity each tick and where it sits on screen.
// Everything else about a boat (resources, collisions, kinematics) is shared.
type Steering interface {
	Steer(b *Boat, dt float64)
	Place(b *Boat, view RaceView)
}

// RaceView is the slice of race state a boat needs to place itself on screen.
type RaceView struct {
	PlayerY          float64
	PlayerDistance   float64
	RaceLength       float64
	FinishLineHeight float64
}

// Boat holds the kinematics and resource state shared by every boat.
type Boat struct {
	Name   string
	Type   BoatType
	Pos    Vec2
	Vel    Vec2
	Hitbox Hitbox

	Health     float64
	MaxHealth  float64
	Stamina    float64
	MaxStamina float64
	Shield     float64
	Boost      float64
	Agility    float64

	DistanceTravelled float64
	Time              float64
	TotalTime         float64
	PenaltyTime       float64

	RecentCollision bool
	CollisionTime   float64

	speed      float64
	speedBonus float64
	lane       *Lane
	settings   Settings
	steering   Steering
}

func newBoat(t BoatType, lane *Lane, name string, settings Settings, steering Steering) *Boat {
	area := lane.Area()
	pos := Vec2{X: area.X + (area.Width-BoatWidth)/2, Y: BoatBaseY}
	return &Boat{
		Name:       name,
		Type:       t,
		Pos:        pos,
		Hitbox:     NewHitbox(pos.X, pos.Y, BoatWidth, BoatHeight),
		Health:     t.Health(),
		MaxHealth:  t.Health(),
		Stamina:    t.Stamina(),
		MaxStamina: t.Stamina(),
		Agility:    t.Agility(),
		speed:      t.Speed(),
		lane:       lane,
		settings:   settings,
		steering:   steering,
	}
}

// Update runs one simulation tick: steering first, then the shared kinematics.
func (b *Boat) Update(dt float64) {
	if b.steering != nil {
		b.steering.Steer(b, dt)
	}
	b.advance(dt)
}

// UpdateYPosition places the boat on screen relative to the rest of the race.
func (b *Boat) UpdateYPosition(view RaceView) {
	if b.steering != nil {
		b.steering.Place(b, view)
	}
	b.Hitbox.Move(b.Pos.X, b.Pos.Y)
}

func (b *Boat) advance(dt float64) {
	if b.Hitbox.LeavesHorizontally(b.lane.Area()) {
		b.PenaltyTime += LanePenaltyStep
	}
	b.PenaltyTime = roundCentis(b.PenaltyTime)

	b.DistanceTravelled += b.Vel.Y * dt

	b.lane.Update(dt, b.Vel.Y)

	if !b.Vel.IsZero(VelocityZeroEpsilon) {
		b.Pos.X += b.Vel.X * dt
		b.Vel.X *= b.Agility / 100
	}

	if b.Boost > 0 {
		b.Boost--
		if b.Boost <= 0 {
			b.Boost = 0
			b.speedBonus = 0
		}
	}

	b.Hitbox.Move(b.Pos.X, b.Pos.Y)
}

// CheckObstacleCollisions removes every obstacle touching the boat and applies
// its damage. It reports whether anything was hit.
func (b *Boat) CheckObstacleCollisions() bool {
	hit := false
	for _, o := range append([]*Obstacle(nil), b.lane.Obstacles()...) {
		if !o.Hitbox.CollidesWith(b.Hitbox) {
			continue
		}
		b.lane.RemoveObstacle(o)
		b.TakeDamage(o.Type.Damage())
		hit = true
	}
	return hit
}

// CheckPowerUpCollisions collects every power-up touching the boat and applies
// its effect. It reports whether anything was collected.
func (b *Boat) CheckPowerUpCollisions() bool {
	collected := false
	for _, p := range append([]*PowerUp(nil), b.lane.PowerUps()...) {
		if !p.Hitbox.CollidesWith(b.Hitbox) {
			continue
		}
		b.lane.RemovePowerUp(p)
		b.ApplyPowerUp(p.Type)
		collected = true
	}
	return collected
}

// TakeDamage drains the shield first and spills the rest onto health.
func (b *Boat) TakeDamage(damage float64) {
	switch {
	case b.Shield == 0:
		b.Health -= damage
	case b.Shield >= damage:
		b.Shield -= damage
	default:
		b.Health -= damage - b.Shield
		b.Shield = 0
	}
	b.Health = math.Max(b.Health, 0)
}

// ApplyPowerUp applies exactly one effect for the given power-up type.
func (b *Boat) ApplyPowerUp(t PowerUpType) {
	switch t.Effect() {
	case EffectSpeed:
		b.Boost += SpeedBoostTicks
		b.speedBonus = SpeedBoostBonus
	case EffectRepair:
		b.Health = b.MaxHealth
	case EffectShield:
		b.Shield = ShieldStrength
	case EffectClear:
		for _, o := range append([]*Obstacle(nil), b.lane.Obstacles()...) {
			b.lane.RemoveObstacle(o)
		}
	case EffectStamina:
		b.Stamina = b.MaxStamina
	}
}

// Speed returns the boat's speed attribute including any active boost bonus.
// This is not the velocity the boat is currently moving at.
func (b *Boat) Speed() float64 { return b.speed + b.speedBonus }

// BaseSpeed returns the speed attribute without boost.
func (b *Boat) BaseSpeed() float64 { return b.speed }

// Lane returns the lane this boat owns.
func (b *Boat) Lane() *Lane { return b.lane }

// Steering returns the boat's steering strategy.
func (b *Boat) Steering() Steering { return b.steering }

// Computer returns the computer steering of a CPU boat, or nil for the player.
func (b *Boat) Computer() *ComputerSteering {
	c, _ := b.steering.(*ComputerSteering)
	return c
}

// Crossed reports whether the boat has reached the finish line.
func (b *Boat) Crossed(raceLength int) bool {
	return b.DistanceTravelled+FinishLineHeight >= float64(raceLength)
}

func (b *Boat) velocityPercentage() float64 {
	return VelocityPercentage(b.Stamina, b.settings.StaminaSpeedDivision)
}

// spendStamina pays for one boosting tick. It returns false, leaving stamina
// untouched, when the boat cannot afford it.
func (b *Boat) spendStamina(dt float64) bool {
	cost := StaminaCost(b.Stamina, b.MaxStamina) * dt
	if b.Stamina-cost <= 0 {
		return false
	}
	b.Stamina -= cost
	return true
}

func (b *Boat) regenerateStamina() {
	if b.Stamina < b.MaxStamina {
		b.Stamina = math.Min(b.Stamina+StaminaRegen(b.Stamina, b.MaxStamina), b.MaxStamina)
		return
	}
	b.Stamina = b.MaxStamina
}

func roundCentis(v float64) float64 {
	return math.Round(v*100) / 100
}
