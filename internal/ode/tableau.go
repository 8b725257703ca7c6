package ode

// Dormand-Prince 5(4) Butcher tableau. The 5th-order solution is propagated,
// the embedded 4th-order one only drives the error estimate.
const (
	stages = 6

	// errorEstimatorOrder sets the step-size control exponent -1/(order+1).
	errorEstimatorOrder = 4
)

var rkC = [stages]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1}

var rkA = [stages][stages]float64{
	{},
	{1.0 / 5},
	{3.0 / 40, 9.0 / 40},
	{44.0 / 45, -56.0 / 15, 32.0 / 9},
	{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
	{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
}

var rkB = [stages]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84}

// rkE holds the difference between the 5th- and 4th-order weights; the last
// entry applies to the derivative at the end of the step (FSAL stage).
var rkE = [stages + 1]float64{-71.0 / 57600, 0, 71.0 / 16695, -71.0 / 1920, 17253.0 / 339200, -22.0 / 525, 1.0 / 40}

// rkP are the coefficients of the 4th-order continuous extension. Row k
// weighs stage k against the powers x, x^2, x^3, x^4 of the normalized step
// position.
var rkP = [stages + 1][4]float64{
	{1, -8048581381.0 / 2820520608, 8663915743.0 / 2820520608, -12715105075.0 / 11282082432},
	{0, 0, 0, 0},
	{0, 131558114200.0 / 32700410799, -68118460800.0 / 10900136933, 87487479700.0 / 32700410799},
	{0, -1754552775.0 / 470086768, 14199869525.0 / 1410260304, -10690763975.0 / 1880347072},
	{0, 127303824393.0 / 49829197408, -318862633887.0 / 49829197408, 701980252875.0 / 199316789632},
	{0, -282668133.0 / 205662961, 2019193451.0 / 616988883, -1453857185.0 / 822651844},
	{0, 40617522.0 / 29380423, -110615467.0 / 29380423, 69997945.0 / 29380423},
}

// Step-size controller constants.
const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 10
)
