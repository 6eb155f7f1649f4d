package game

import "math/rand"

// scheduleSpawn queues one future spawn after a uniform wait in
// [MinSpawnWait, MaxSpawnWait).
func (l *Lane) scheduleSpawn() {
	l.waitTimes = append(l.waitTimes, MinSpawnWait+(MaxSpawnWait-MinSpawnWait)*rand.Float64())
}

func (l *Lane) spawnRandom() {
	if rand.Float64() < ObstacleSpawnChance {
		t := ObstacleType(rand.Intn(len(obstacleStats)))
		l.obstacles = append(l.obstacles, NewObstacle(t, l.spawnPosition(ObstacleWidth)))
		return
	}
	t := PowerUpType(rand.Intn(len(powerUpStats)))
	l.powerUps = append(l.powerUps, NewPowerUp(t, l.spawnPosition(PowerUpWidth)))
}

// spawnPosition picks a random x that keeps an entity of the given width inside
// the lane, at the top of the visible screen.
func (l *Lane) spawnPosition(entityWidth float64) Vec2 {
	x := l.area.X
	if free := l.area.Width - entityWidth; free > 0 {
		x += rand.Float64() * free
	}
	return Vec2{X: x, Y: ScreenHeight}
}
