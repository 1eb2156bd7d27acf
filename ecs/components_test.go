package ecs_test

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current, Max int
}

type Gravity struct {
	Acc float64
}

type TimeDelta struct {
	DT float64
}

type A struct{ Value int }
type B struct{ Value int }
type C struct{ Value int }
