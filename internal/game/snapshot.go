package game

// EntityState is a read-only view of an obstacle or power-up for rendering.
type EntityState struct {
	Type    string `json:"type"`
	Texture string `json:"texture"`
	Pos     Vec2   `json:"pos"`
}

// BoatState is a read-only view of a boat for rendering.
type BoatState struct {
	Name              string        `json:"name"`
	Type              BoatType      `json:"type"`
	Texture           string        `json:"texture"`
	Pos               Vec2          `json:"pos"`
	Vel               Vec2          `json:"vel"`
	Health            float64       `json:"health"`
	MaxHealth         float64       `json:"max_health"`
	Stamina           float64       `json:"stamina"`
	MaxStamina        float64       `json:"max_stamina"`
	Shield            float64       `json:"shield"`
	Boost             float64       `json:"boost"`
	DistanceTravelled float64       `json:"distance_travelled"`
	Time              float64       `json:"time"`
	TotalTime         float64       `json:"total_time"`
	PenaltyTime       float64       `json:"penalty_time"`
	CPUState          string        `json:"cpu_state,omitempty"`
	Lane              Hitbox        `json:"lane"`
	Obstacles         []EntityState `json:"obstacles"`
	PowerUps          []EntityState `json:"power_ups"`
}

// RaceSnapshot is everything a client needs to draw one frame.
type RaceSnapshot struct {
	Round      int         `json:"round"`
	Length     int         `json:"length"`
	State      RaceState   `json:"state"`
	Elapsed    float64     `json:"elapsed"`
	Paused     bool        `json:"paused"`
	FinishLine Vec2        `json:"finish_line"`
	Player     BoatState   `json:"player"`
	Boats      []BoatState `json:"boats"`
}

// Snapshot captures the boat for rendering.
func (b *Boat) Snapshot() BoatState {
	s := BoatState{
		Name:              b.Name,
		Type:              b.Type,
		Texture:           b.Type.Texture(),
		Pos:               b.Pos,
		Vel:               b.Vel,
		Health:            b.Health,
		MaxHealth:         b.MaxHealth,
		Stamina:           b.Stamina,
		MaxStamina:        b.MaxStamina,
		Shield:            b.Shield,
		Boost:             b.Boost,
		DistanceTravelled: b.DistanceTravelled,
		Time:              b.Time,
		TotalTime:         b.TotalTime,
		PenaltyTime:       b.PenaltyTime,
		Lane:              b.lane.Area(),
		Obstacles:         make([]EntityState, 0, len(b.lane.Obstacles())),
		PowerUps:          make([]EntityState, 0, len(b.lane.PowerUps())),
	}
	if c := b.Computer(); c != nil {
		s.CPUState = c.State.String()
	}
	for _, o := range b.lane.Obstacles() {
		s.Obstacles = append(s.Obstacles, EntityState{Type: o.Type.String(), Texture: o.Type.Texture(), Pos: o.Pos})
	}
	for _, p := range b.lane.PowerUps() {
		s.PowerUps = append(s.PowerUps, EntityState{Type: p.Type.String(), Texture: p.Type.Texture(), Pos: p.Pos})
	}
	return s
}

// Snapshot captures the race for rendering.
func (r *Race) Snapshot() RaceSnapshot {
	s := RaceSnapshot{
		Round:      r.Round,
		Length:     r.Length,
		State:      r.State,
		Elapsed:    r.Elapsed(),
		Paused:     r.Paused(),
		FinishLine: r.FinishLine.Pos,
		Player:     r.Player.Snapshot(),
		Boats:      make([]BoatState, 0, len(r.Boats)),
	}
	for _, b := range r.Boats {
		s.Boats = append(s.Boats, b.Snapshot())
	}
	return s
}
