package game

import "time"

// Track dimensions (pixels). The presentation layer scales these to its window.
const (
	ScreenWidth  = 1920
	ScreenHeight = 1080
	LaneOverscan = 200 // lanes extend past the top of the screen so spawns start hidden
)

// Player limits
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// Difficulty levels
const (
	DifficultyEasy   = 0
	DifficultyNormal = 1
	DifficultyHard   = 2
)

// Entity sizes (pixels)
const (
	BoatWidth           = 50
	BoatHeight          = 80
	ObstacleWidth       = 40
	ObstacleHeight      = 40
	PowerUpWidth        = 50
	PowerUpHeight       = 50
	FinishLineHeight    = 241
	BoatBaseY           = 100.0 // screen row the player paddles on
	LaneWallMargin      = 10.0
	PowerUpLookAhead    = 0.2 // fraction of screen height scanned for power-ups
	VelocityZeroEpsilon = 0.001
)

// Stamina economy
const (
	StaminaRate   = 10.0
	MinBoostSpeed = 5.0
)

// Lane spawning
const (
	ObstacleSpawnChance = 0.8
	MinSpawnWait        = 1.0
	MaxSpawnWait        = 3.0
)

// Power-up effects
const (
	SpeedBoostTicks = 100
	SpeedBoostBonus = 100.0
	ShieldStrength  = 50.0
)

// Lane penalties
const (
	LanePenaltyStep = 0.1
)

// Race defaults
const (
	DefaultRaceLength           = 10000
	DefaultStaminaSpeedDivision = 2
	DefaultCollisionPenalty     = -20.0 // vertical velocity while recovering from a hit
	DefaultCollisionRecovery    = 0.5   // seconds
	TieBreakNudge               = 0.02
)

// Tournament structure
const (
	RegularRounds = 3
	FinalRound    = 4
	FinalistCount = 4
)

// Session timing
const (
	DefaultTickRate = 60
	CountdownStep   = time.Second
)
