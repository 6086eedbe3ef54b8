package geo

// DefaultMaxIterations bounds the number of node expansions per Find call.
const DefaultMaxIterations = 2000

// StepCost is the uniform cost of one cardinal step.
const StepCost = 1

// scoreInfinity marks a cell whose score has not been set in the current search.
const scoreInfinity = int32(1<<31 - 1)
