package game

// Lane is the corridor owned by a single boat. It holds the obstacles and
// power-ups scrolling towards that boat and the timers for future spawns.
type Lane struct {
	Pos   Vec2
	Width int
	Round int

	area      Hitbox
	obstacles []*Obstacle
	powerUps  []*PowerUp
	waitTimes []float64
}

// InitialSpawnCount returns how many spawns a fresh lane schedules. It grows with
// the round and difficulty and shrinks as more lanes share the screen.
func InitialSpawnCount(round, playerCount, difficulty int) int {
	return (5 - playerCount + round) + 5*difficulty
}

// NewLane creates a lane at pos and schedules its initial spawns.
func NewLane(pos Vec2, width, round int, settings Settings) *Lane {
	l := newEmptyLane(pos, width, round)
	for i := 0; i < InitialSpawnCount(round, settings.PlayerCount, settings.Difficulty); i++ {
		l.scheduleSpawn()
	}
	return l
}

func newEmptyLane(pos Vec2, width, round int) *Lane {
	return &Lane{
		Pos:   pos,
		Width: width,
		Round: round,
		area:  NewHitbox(pos.X, pos.Y, float64(width), ScreenHeight+LaneOverscan),
	}
}

// Update scrolls the lane contents, retires anything that has left the lane and
// fires any spawn timers that have run out.
func (l *Lane) Update(dt, boatVelY float64) {
	kept := l.obstacles[:0]
	for _, o := range l.obstacles {
		o.Update(dt, boatVelY)
		if o.Hitbox.OutsideVertically(l.area) {
			l.scheduleSpawn()
			continue
		}
		kept = append(kept, o)
	}
	clearTail(l.obstacles, len(kept))
	l.obstacles = kept

	keptPowerUps := l.powerUps[:0]
	for _, p := range l.powerUps {
		p.Update(dt, boatVelY)
		if p.Hitbox.OutsideVertically(l.area) {
			l.scheduleSpawn()
			continue
		}
		keptPowerUps = append(keptPowerUps, p)
	}
	clearTail(l.powerUps, len(keptPowerUps))
	l.powerUps = keptPowerUps

	remaining := make([]float64, 0, len(l.waitTimes))
	for _, wait := range l.waitTimes {
		wait -= dt
		if wait > 0 {
			remaining = append(remaining, wait)
			continue
		}
		l.spawnRandom()
	}
	l.waitTimes = remaining
}

// RemoveObstacle removes o from the lane and schedules its replacement.
func (l *Lane) RemoveObstacle(o *Obstacle) {
	for i, cur := range l.obstacles {
		if cur == o {
			l.obstacles = append(l.obstacles[:i], l.obstacles[i+1:]...)
			break
		}
	}
	l.scheduleSpawn()
}

// RemovePowerUp removes p from the lane and schedules its replacement.
func (l *Lane) RemovePowerUp(p *PowerUp) {
	for i, cur := range l.powerUps {
		if cur == p {
			l.powerUps = append(l.powerUps[:i], l.powerUps[i+1:]...)
			break
		}
	}
	l.scheduleSpawn()
}

// AddObstacle places an obstacle in the lane without touching the timers.
func (l *Lane) AddObstacle(o *Obstacle) {
	l.obstacles = append(l.obstacles, o)
}

// AddPowerUp places a power-up in the lane without touching the timers.
func (l *Lane) AddPowerUp(p *PowerUp) {
	l.powerUps = append(l.powerUps, p)
}

// Obstacles returns the active obstacles in spawn order.
func (l *Lane) Obstacles() []*Obstacle { return l.obstacles }

// PowerUps returns the active power-ups in spawn order.
func (l *Lane) PowerUps() []*PowerUp { return l.powerUps }

// WaitTimes returns the pending spawn timers.
func (l *Lane) WaitTimes() []float64 { return l.waitTimes }

// Area returns the lane bounds.
func (l *Lane) Area() Hitbox { return l.area }

// Dispose drops everything the lane holds.
func (l *Lane) Dispose() {
	l.obstacles = nil
	l.powerUps = nil
	l.waitTimes = nil
}

func clearTail[T any](s []*T, from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}
