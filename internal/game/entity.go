package game

import (
	"encoding/json"
	"fmt"
)

// ObstacleType is a closed set of hazards that can drift down a lane.
type ObstacleType int

const (
	ObstacleBranch ObstacleType = iota
	ObstacleLeaf
	ObstacleRock
	ObstacleDuck
	ObstacleLog
	ObstacleCrocodile
)

type entityStats struct {
	name    string
	texture string
	speed   float64
	damage  float64
}

var obstacleStats = []entityStats{
	ObstacleBranch:    {"BRANCH", "branch.png", 40, 10},
	ObstacleLeaf:      {"LEAF", "leaf.png", 20, 5},
	ObstacleRock:      {"ROCK", "rock.png", 0, 30},
	ObstacleDuck:      {"DUCK", "duck.png", 70, 15},
	ObstacleLog:       {"LOG", "log.png", 30, 20},
	ObstacleCrocodile: {"CROCODILE", "crocodile.png", 60, 60},
}

// ObstacleTypes lists every obstacle type in declaration order.
func ObstacleTypes() []ObstacleType {
	types := make([]ObstacleType, len(obstacleStats))
	for i := range obstacleStats {
		types[i] = ObstacleType(i)
	}
	return types
}

func (t ObstacleType) valid() bool { return t >= 0 && int(t) < len(obstacleStats) }

func (t ObstacleType) String() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return obstacleStats[t].name
}

func (t ObstacleType) Texture() string { return obstacleStats[t].texture }
func (t ObstacleType) Speed() float64  { return obstacleStats[t].speed }
func (t ObstacleType) Damage() float64 { return obstacleStats[t].damage }

// MarshalJSON serializes ObstacleType as its enum name.
func (t ObstacleType) MarshalJSON() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: obstacle type %d", ErrUnknownType, int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes ObstacleType from its enum name.
func (t *ObstacleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, st := range obstacleStats {
		if st.name == s {
			*t = ObstacleType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: obstacle type %q", ErrUnknownType, s)
}

// PowerUpEffect tags what a power-up does when collected.
type PowerUpEffect int

const (
	EffectSpeed PowerUpEffect = iota
	EffectRepair
	EffectShield
	EffectClear
	EffectStamina
)

// PowerUpType is a closed set of pickups. Each type has exactly one effect.
type PowerUpType int

const (
	PowerUpSpeed PowerUpType = iota
	PowerUpRepair
	PowerUpShield
	PowerUpClear
	PowerUpStamina
)

var powerUpStats = []struct {
	entityStats
	effect PowerUpEffect
}{
	PowerUpSpeed:   {entityStats{"SPEED", "power_up_speed.png", 50, 0}, EffectSpeed},
	PowerUpRepair:  {entityStats{"REPAIR", "power_up_repair.png", 50, 0}, EffectRepair},
	PowerUpShield:  {entityStats{"SHIELD", "power_up_shield.png", 55, 0}, EffectShield},
	PowerUpClear:   {entityStats{"CLEAR", "power_up_clear.png", 50, 0}, EffectClear},
	PowerUpStamina: {entityStats{"STAMINA", "power_up_stamina.png", 50, 0}, EffectStamina},
}

// PowerUpTypes lists every power-up type in declaration order.
func PowerUpTypes() []PowerUpType {
	types := make([]PowerUpType, len(powerUpStats))
	for i := range powerUpStats {
		types[i] = PowerUpType(i)
	}
	return types
}

func (t PowerUpType) valid() bool { return t >= 0 && int(t) < len(powerUpStats) }

func (t PowerUpType) String() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return powerUpStats[t].name
}

func (t PowerUpType) Texture() string       { return powerUpStats[t].texture }
func (t PowerUpType) Speed() float64        { return powerUpStats[t].speed }
func (t PowerUpType) Damage() float64       { return powerUpStats[t].damage }
func (t PowerUpType) Effect() PowerUpEffect { return powerUpStats[t].effect }

// MarshalJSON serializes PowerUpType as its enum name.
func (t PowerUpType) MarshalJSON() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: power-up type %d", ErrUnknownType, int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes PowerUpType from its enum name.
func (t *PowerUpType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, st := range powerUpStats {
		if st.name == s {
			*t = PowerUpType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: power-up type %q", ErrUnknownType, s)
}

// Obstacle is a hazard scrolling down a lane.
type Obstacle struct {
	Type   ObstacleType
	Pos    Vec2
	Hitbox Hitbox
}

// NewObstacle places an obstacle of the given type at pos.
func NewObstacle(t ObstacleType, pos Vec2) *Obstacle {
	return &Obstacle{
		Type:   t,
		Pos:    pos,
		Hitbox: NewHitbox(pos.X, pos.Y, ObstacleWidth, ObstacleHeight),
	}
}

// Update scrolls the obstacle against the boat's forward motion.
func (o *Obstacle) Update(dt, boatVelY float64) {
	o.Pos.Y -= (boatVelY + o.Type.Speed()) * dt
	o.Hitbox.Move(o.Pos.X, o.Pos.Y)
}

// PowerUp is a pickup scrolling down a lane.
type PowerUp struct {
	Type   PowerUpType
	Pos    Vec2
	Hitbox Hitbox
}

// NewPowerUp places a power-up of the given type at pos.
func NewPowerUp(t PowerUpType, pos Vec2) *PowerUp {
	return &PowerUp{
		Type:   t,
		Pos:    pos,
		Hitbox: NewHitbox(pos.X, pos.Y, PowerUpWidth, PowerUpHeight),
	}
}

// Update scrolls the power-up against the boat's forward motion.
func (p *PowerUp) Update(dt, boatVelY float64) {
	p.Pos.Y -= (boatVelY + p.Type.Speed()) * dt
	p.Hitbox.Move(p.Pos.X, p.Pos.Y)
}
