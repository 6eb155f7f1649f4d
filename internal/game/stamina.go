package game

import "math"

// StaminaCost returns how much stamina one tick of boosting costs at the given
// stamina level. The cost falls as stamina rises.
func StaminaCost(stamina, maxStamina float64) float64 {
	return math.Pow(maxStamina, -stamina/(2*maxStamina))*StaminaRate + StaminaRate + MinBoostSpeed
}

// StaminaRegen returns how much stamina one resting tick restores. Regeneration
// slows as stamina rises and stays positive for stamina >= 0.
func StaminaRegen(stamina, maxStamina float64) float64 {
	return (-StaminaRate*math.Pow(maxStamina, -stamina/(2*maxStamina)) + StaminaRate + 1) / 10
}

// VelocityPercentage returns the fraction of base speed gained while boosting.
func VelocityPercentage(stamina, division float64) float64 {
	return (0.25 + math.Log(stamina+1)/3) / division
}
