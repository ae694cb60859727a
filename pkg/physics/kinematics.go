package physics

// Kinematics is the moving state of a steered body such as a homing missile.
type Kinematics struct {
	Position Vector2D
	Velocity Vector2D
	MaxSpeed float64
}

// Steer accelerates the body toward target by accel, limits its speed to
// MaxSpeed and advances its position by one tick.
func (k *Kinematics) Steer(target Vector2D, accel float64) {
	dir := target.Sub(k.Position).Normalize()
	k.Velocity = k.Velocity.Add(dir.Scale(accel)).ClampLength(k.MaxSpeed)
	k.Advance()
}

// Advance moves the body by its current velocity.
func (k *Kinematics) Advance() {
	k.Position = k.Position.Add(k.Velocity)
}

// Heading returns the direction of travel in radians
func (k *Kinematics) Heading() float64 {
	return k.Velocity.Angle()
}

// PredictIntercept returns where a target moving at targetVel will be when a
// projectile fired from shooter at projectileSpeed reaches its current position.
// The flight time is approximated as distance / projectileSpeed.
func PredictIntercept(shooter, target, targetVel Vector2D, projectileSpeed float64) Vector2D {
	if projectileSpeed <= 0 {
		return target
	}
	t := shooter.Distance(target) / projectileSpeed
	return target.Add(targetVel.Scale(t))
}
