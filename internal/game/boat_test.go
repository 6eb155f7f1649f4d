package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerBoat_StatsFromType(t *testing.T) {
	for _, bt := range BoatTypes() {
		t.Run(bt.String(), func(t *testing.T) {
			b := newTestBoat(bt)

			assert.Equal(t, bt.Health(), b.Health)
			assert.Equal(t, bt.Health(), b.MaxHealth)
			assert.Equal(t, bt.Stamina(), b.Stamina)
			assert.Equal(t, bt.Agility(), b.Agility)
			assert.Equal(t, bt.Speed(), b.Speed())
			assert.Equal(t, Vec2{X: 95, Y: BoatBaseY}, b.Pos)
			assert.False(t, b.Hitbox.LeavesHorizontally(b.Lane().Area()))
		})
	}
}

func TestBoat_PowerUpEffects(t *testing.T) {
	tests := []struct {
		name  string
		typ   PowerUpType
		setup func(b *Boat)
		check func(t *testing.T, b *Boat)
	}{
		{
			name: "speed adds boost and bonus",
			typ:  PowerUpSpeed,
			check: func(t *testing.T, b *Boat) {
				assert.Equal(t, float64(SpeedBoostTicks), b.Boost)
				assert.Equal(t, b.BaseSpeed()+SpeedBoostBonus, b.Speed())
			},
		},
		{
			name:  "repair restores health",
			typ:   PowerUpRepair,
			setup: func(b *Boat) { b.Health = 12 },
			check: func(t *testing.T, b *Boat) {
				assert.Equal(t, b.MaxHealth, b.Health)
			},
		},
		{
			name: "shield sets shield",
			typ:  PowerUpShield,
			check: func(t *testing.T, b *Boat) {
				assert.Equal(t, ShieldStrength, b.Shield)
			},
		},
		{
			name: "clear empties obstacles",
			typ:  PowerUpClear,
			setup: func(b *Boat) {
				b.Lane().AddObstacle(NewObstacle(ObstacleLog, Vec2{X: 10, Y: 700}))
				b.Lane().AddObstacle(NewObstacle(ObstacleDuck, Vec2{X: 150, Y: 900}))
			},
			check: func(t *testing.T, b *Boat) {
				assert.Empty(t, b.Lane().Obstacles())
				// one replacement per cleared obstacle plus one for the power-up
				assert.Len(t, b.Lane().WaitTimes(), 3)
			},
		},
		{
			name:  "stamina refills stamina",
			typ:   PowerUpStamina,
			setup: func(b *Boat) { b.Stamina = 3 },
			check: func(t *testing.T, b *Boat) {
				assert.Equal(t, b.MaxStamina, b.Stamina)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoat(BoatBalanced)
			if tt.setup != nil {
				tt.setup(b)
			}
			b.Lane().AddPowerUp(NewPowerUp(tt.typ, b.Pos))

			require.True(t, b.CheckPowerUpCollisions())
			assert.Empty(t, b.Lane().PowerUps())
			tt.check(t, b)
		})
	}
}

func TestBoat_SpeedBoostStacksDurationOnly(t *testing.T) {
	b := newTestBoat(BoatFast)
	b.ApplyPowerUp(PowerUpSpeed)
	b.ApplyPowerUp(PowerUpSpeed)

	assert.Equal(t, float64(2*SpeedBoostTicks), b.Boost)
	assert.Equal(t, b.BaseSpeed()+SpeedBoostBonus, b.Speed())
}

func TestBoat_BoostExpires(t *testing.T) {
	b := newTestBoat(BoatFast)
	b.ApplyPowerUp(PowerUpSpeed)

	for i := 0; i < SpeedBoostTicks-1; i++ {
		b.advance(1.0 / 60)
	}
	assert.Equal(t, 1.0, b.Boost)
	assert.Equal(t, b.BaseSpeed()+SpeedBoostBonus, b.Speed())

	b.advance(1.0 / 60)
	assert.Equal(t, 0.0, b.Boost)
	assert.Equal(t, b.BaseSpeed(), b.Speed())
}

func TestBoat_LateralDamping(t *testing.T) {
	b := newTestBoat(BoatFast)
	b.Vel = Vec2{X: 100, Y: 0}
	startX := b.Pos.X

	b.advance(0.1)

	assert.InDelta(t, startX+10, b.Pos.X, 1e-9)
	assert.InDelta(t, 100*BoatFast.Agility()/100, b.Vel.X, 1e-9)
	assert.Equal(t, b.Pos.X, b.Hitbox.X)
}

func TestBoat_StationaryBoatDoesNotDrift(t *testing.T) {
	b := newTestBoat(BoatAgile)
	start := b.Pos

	b.advance(0.1)

	assert.Equal(t, start, b.Pos)
	assert.Equal(t, 0.0, b.DistanceTravelled)
}

func TestBoat_LanePenalty(t *testing.T) {
	b := newTestBoat(BoatStrong)
	b.Pos.X = -20
	b.Hitbox.Move(b.Pos.X, b.Pos.Y)

	for i := 0; i < 3; i++ {
		b.advance(1.0 / 60)
	}
	assert.Equal(t, 0.3, b.PenaltyTime)

	b.Pos.X = 95
	b.Hitbox.Move(b.Pos.X, b.Pos.Y)
	b.advance(1.0 / 60)
	assert.Equal(t, 0.3, b.PenaltyTime)
}

func TestBoat_DistanceAccrues(t *testing.T) {
	b := newTestBoat(BoatEndurance)
	b.Vel = Vec2{Y: 120}

	b.advance(0.5)

	assert.InDelta(t, 60, b.DistanceTravelled, 1e-9)
}

func TestPlayerSteering_BoostingDrainsStamina(t *testing.T) {
	b := newTestBoat(BoatFast)
	b.Steering().(*PlayerSteering).SetInput(PlayerInput{Accelerate: true})

	b.Update(1.0 / 60)
	assert.Less(t, b.Stamina, b.MaxStamina)
	assert.Greater(t, b.Vel.Y, b.Speed())

	for i := 0; i < 600; i++ {
		b.Update(1.0 / 60)
	}
	assert.Less(t, b.Stamina, b.MaxStamina)
	assert.GreaterOrEqual(t, b.Stamina, 0.0)
	assert.Greater(t, b.DistanceTravelled, 0.0)
}

func TestPlayerSteering_RestingRegenerates(t *testing.T) {
	b := newTestBoat(BoatFast)
	b.Stamina = 10

	b.Update(1.0 / 60)

	assert.Greater(t, b.Stamina, 10.0)
	assert.Equal(t, b.Speed(), b.Vel.Y)
}

func TestPlayerSteering_Steer(t *testing.T) {
	tests := []struct {
		name  string
		input PlayerInput
		sign  float64
	}{
		{"left", PlayerInput{Steer: -1}, -1},
		{"right", PlayerInput{Steer: 1}, 1},
		{"clamped right", PlayerInput{Steer: 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoat(BoatAgile)
			b.Steering().(*PlayerSteering).SetInput(tt.input)

			b.Steering().Steer(b, 1.0/60)

			assert.Equal(t, tt.sign*b.Speed(), b.Vel.X)
		})
	}
}

func TestPlayerSteering_Place(t *testing.T) {
	b := newTestBoat(BoatAgile)
	view := RaceView{RaceLength: 10000, FinishLineHeight: FinishLineHeight}

	b.UpdateYPosition(view)
	assert.Equal(t, BoatBaseY, b.Pos.Y)

	b.DistanceTravelled = 10000 - FinishLineHeight
	b.UpdateYPosition(view)
	assert.Greater(t, b.Pos.Y, BoatBaseY)
	assert.Equal(t, b.Pos.Y, b.Hitbox.Y)
}

func TestStaminaFormulas(t *testing.T) {
	for _, bt := range BoatTypes() {
		full := bt.Stamina()
		assert.Greater(t, StaminaCost(0, full), StaminaCost(full, full), bt.String())
		assert.Greater(t, StaminaRegen(0, full), 0.0, bt.String())
		assert.Greater(t, StaminaRegen(full, full), StaminaRegen(0, full), bt.String())
	}
	assert.InDelta(t, 0.125, VelocityPercentage(0, 2), 1e-9)
}
