package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SaveVersion is written into every race save. Saves without a version are
// read as version 1.
const SaveVersion = 1

var (
	ErrUnknownType        = errors.New("unknown type")
	ErrMissingField       = errors.New("missing field")
	ErrMalformedSave      = errors.New("malformed save")
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// Save layout. Field order here is the order written to disk.

type vecJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type obstacleJSON struct {
	Type ObstacleType `json:"type"`
	Pos  vecJSON      `json:"pos"`
}

type powerUpJSON struct {
	Type PowerUpType `json:"type"`
	Pos  vecJSON     `json:"pos"`
}

type laneJSON struct {
	Pos             vecJSON        `json:"pos"`
	Width           int            `json:"width"`
	Round           int            `json:"round"`
	Obstacles       []obstacleJSON `json:"obstacles"`
	PowerUps        []powerUpJSON  `json:"powerUps"`
	RandomWaitTimes []float64      `json:"randomWaitTimes"`
}

type boatDataJSON struct {
	Shield            float64 `json:"shield"`
	Boost             float64 `json:"boost"`
	Health            float64 `json:"health"`
	Stamina           float64 `json:"stamina"`
	Time              float64 `json:"time"`
	TotalTime         float64 `json:"totalTime"`
	PenaltyTime       float64 `json:"penaltyTime"`
	DistanceTravelled float64 `json:"distanceTravelled"`
}

type boatJSON struct {
	Pos  vecJSON      `json:"pos"`
	Vel  vecJSON      `json:"vel"`
	Type BoatType     `json:"type"`
	Lane laneJSON     `json:"lane"`
	Name string       `json:"name"`
	Data boatDataJSON `json:"data"`
}

type raceJSON struct {
	Version int        `json:"version"`
	Length  int        `json:"length"`
	Round   int        `json:"round"`
	Player  boatJSON   `json:"player"`
	Boats   []boatJSON `json:"boats"`
}

func toVec(v Vec2) vecJSON { return vecJSON{X: v.X, Y: v.Y} }

func (l *Lane) toJSON() laneJSON {
	out := laneJSON{
		Pos:             toVec(l.Pos),
		Width:           l.Width,
		Round:           l.Round,
		Obstacles:       make([]obstacleJSON, 0, len(l.obstacles)),
		PowerUps:        make([]powerUpJSON, 0, len(l.powerUps)),
		RandomWaitTimes: append(make([]float64, 0, len(l.waitTimes)), l.waitTimes...),
	}
	for _, o := range l.obstacles {
		out.Obstacles = append(out.Obstacles, obstacleJSON{Type: o.Type, Pos: toVec(o.Pos)})
	}
	for _, p := range l.powerUps {
		out.PowerUps = append(out.PowerUps, powerUpJSON{Type: p.Type, Pos: toVec(p.Pos)})
	}
	return out
}

func (b *Boat) toJSON() boatJSON {
	return boatJSON{
		Pos:  toVec(b.Pos),
		Vel:  toVec(b.Vel),
		Type: b.Type,
		Lane: b.lane.toJSON(),
		Name: b.Name,
		Data: boatDataJSON{
			Shield:            b.Shield,
			Boost:             b.Boost,
			Health:            b.Health,
			Stamina:           b.Stamina,
			Time:              b.Time,
			TotalTime:         b.TotalTime,
			PenaltyTime:       b.PenaltyTime,
			DistanceTravelled: b.DistanceTravelled,
		},
	}
}

// MarshalJSON writes the lane's persisted state.
func (l *Lane) MarshalJSON() ([]byte, error) { return json.Marshal(l.toJSON()) }

// MarshalJSON writes the boat's persisted state, including its lane.
func (b *Boat) MarshalJSON() ([]byte, error) { return json.Marshal(b.toJSON()) }

// MarshalJSON writes a versioned race save.
func (r *Race) MarshalJSON() ([]byte, error) {
	out := raceJSON{
		Version: SaveVersion,
		Length:  r.Length,
		Round:   r.Round,
		Player:  r.Player.toJSON(),
		Boats:   make([]boatJSON, 0, len(r.Boats)),
	}
	for _, b := range r.Boats {
		out.Boats = append(out.Boats, b.toJSON())
	}
	return json.Marshal(out)
}

// object is a decoded JSON object that knows its path in the save so that
// errors point at the offending field.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func decodeObject(path string, data []byte) (object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return object{}, fmt.Errorf("%w: %s: %v", ErrMalformedSave, path, err)
	}
	if fields == nil {
		return object{}, fmt.Errorf("%w: %s", ErrMissingField, path)
	}
	return object{path: path, fields: fields}, nil
}

func (o object) has(name string) bool {
	raw, ok := o.fields[name]
	return ok && string(raw) != "null"
}

// get decodes a required field into dst.
func (o object) get(name string, dst any) error {
	if !o.has(name) {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, o.path, name)
	}
	if err := json.Unmarshal(o.fields[name], dst); err != nil {
		if errors.Is(err, ErrUnknownType) {
			return fmt.Errorf("%s.%s: %w", o.path, name, err)
		}
		return fmt.Errorf("%w: %s.%s: %v", ErrMalformedSave, o.path, name, err)
	}
	return nil
}

func (o object) object(name string) (object, error) {
	if !o.has(name) {
		return object{}, fmt.Errorf("%w: %s.%s", ErrMissingField, o.path, name)
	}
	return decodeObject(o.path+"."+name, o.fields[name])
}

func (o object) array(name string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := o.get(name, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (o object) vec(name string) (Vec2, error) {
	v, err := o.object(name)
	if err != nil {
		return Vec2{}, err
	}
	var out Vec2
	if err := v.get("x", &out.X); err != nil {
		return Vec2{}, err
	}
	if err := v.get("y", &out.Y); err != nil {
		return Vec2{}, err
	}
	return out, nil
}

// UnmarshalLane rebuilds a lane from its persisted state.
func UnmarshalLane(data []byte) (*Lane, error) {
	o, err := decodeObject("lane", data)
	if err != nil {
		return nil, err
	}
	return decodeLane(o)
}

func decodeLane(o object) (*Lane, error) {
	pos, err := o.vec("pos")
	if err != nil {
		return nil, err
	}
	var width, round int
	if err := o.get("width", &width); err != nil {
		return nil, err
	}
	if err := o.get("round", &round); err != nil {
		return nil, err
	}
	l := newEmptyLane(pos, width, round)

	obstacles, err := o.array("obstacles")
	if err != nil {
		return nil, err
	}
	for i, raw := range obstacles {
		e, err := decodeObject(fmt.Sprintf("%s.obstacles[%d]", o.path, i), raw)
		if err != nil {
			return nil, err
		}
		var t ObstacleType
		if err := e.get("type", &t); err != nil {
			return nil, err
		}
		p, err := e.vec("pos")
		if err != nil {
			return nil, err
		}
		l.AddObstacle(NewObstacle(t, p))
	}

	powerUps, err := o.array("powerUps")
	if err != nil {
		return nil, err
	}
	for i, raw := range powerUps {
		e, err := decodeObject(fmt.Sprintf("%s.powerUps[%d]", o.path, i), raw)
		if err != nil {
			return nil, err
		}
		var t PowerUpType
		if err := e.get("type", &t); err != nil {
			return nil, err
		}
		p, err := e.vec("pos")
		if err != nil {
			return nil, err
		}
		l.AddPowerUp(NewPowerUp(t, p))
	}

	if err := o.get("randomWaitTimes", &l.waitTimes); err != nil {
		return nil, err
	}
	return l, nil
}

// UnmarshalBoat rebuilds a player-steered boat from its persisted state.
func UnmarshalBoat(data []byte, settings Settings) (*Boat, error) {
	o, err := decodeObject("boat", data)
	if err != nil {
		return nil, err
	}
	return decodeBoat(o, func(t BoatType, lane *Lane, name string) *Boat {
		return NewPlayerBoat(t, lane, name, settings)
	})
}

type boatFactory func(t BoatType, lane *Lane, name string) *Boat

// decodeBoat reads a boat and restores its derived state: hitbox from position,
// maxima from type and the boost bonus from the remaining boost.
func decodeBoat(o object, build boatFactory) (*Boat, error) {
	var t BoatType
	if err := o.get("type", &t); err != nil {
		return nil, err
	}
	var name string
	if err := o.get("name", &name); err != nil {
		return nil, err
	}
	laneObj, err := o.object("lane")
	if err != nil {
		return nil, err
	}
	lane, err := decodeLane(laneObj)
	if err != nil {
		return nil, err
	}
	pos, err := o.vec("pos")
	if err != nil {
		return nil, err
	}
	vel, err := o.vec("vel")
	if err != nil {
		return nil, err
	}
	dataObj, err := o.object("data")
	if err != nil {
		return nil, err
	}

	b := build(t, lane, name)
	b.Pos = pos
	b.Vel = vel
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"shield", &b.Shield},
		{"boost", &b.Boost},
		{"health", &b.Health},
		{"stamina", &b.Stamina},
		{"time", &b.Time},
		{"totalTime", &b.TotalTime},
		{"penaltyTime", &b.PenaltyTime},
		{"distanceTravelled", &b.DistanceTravelled},
	} {
		if err := dataObj.get(f.name, f.dst); err != nil {
			return nil, err
		}
	}
	if b.Boost > 0 {
		b.speedBonus = SpeedBoostBonus
	}
	b.Hitbox.Move(b.Pos.X, b.Pos.Y)
	if c := b.Computer(); c != nil {
		c.awareness.Move(b.Pos.X-c.xOffset, b.Pos.Y)
	}
	return b, nil
}

// UnmarshalRace rebuilds a race from a save. The number of boats in the save
// overrides settings.PlayerCount; CPU speeds are re-drawn from their ranks.
// The race comes back in the countdown state.
func UnmarshalRace(data []byte, settings Settings, opts ...RaceOption) (*Race, error) {
	o, err := decodeObject("race", data)
	if err != nil {
		return nil, err
	}

	version := 1
	if o.has("version") {
		if err := o.get("version", &version); err != nil {
			return nil, err
		}
	}
	if version < 1 || version > SaveVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var length, round int
	if err := o.get("length", &length); err != nil {
		return nil, err
	}
	if err := o.get("round", &round); err != nil {
		return nil, err
	}
	if round < 1 || round > FinalRound {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRound, round)
	}

	boats, err := o.array("boats")
	if err != nil {
		return nil, err
	}
	settings.PlayerCount = len(boats) + 1
	settings.RaceLength = length
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}

	r := newRace(settings, round, opts...)

	playerObj, err := o.object("player")
	if err != nil {
		return nil, err
	}
	r.Player, err = decodeBoat(playerObj, func(t BoatType, lane *Lane, name string) *Boat {
		return NewPlayerBoat(t, lane, name, settings)
	})
	if err != nil {
		return nil, err
	}

	for i, raw := range boats {
		bo, err := decodeObject(fmt.Sprintf("race.boats[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		rank := i + 2
		b, err := decodeBoat(bo, func(t BoatType, lane *Lane, name string) *Boat {
			return NewComputerBoat(t, lane, name, rank, settings)
		})
		if err != nil {
			return nil, err
		}
		r.Boats = append(r.Boats, b)
	}

	r.FinishLine.Update(r.Player.Pos.Y, r.Player.DistanceTravelled, r.Length)
	return r, nil
}
