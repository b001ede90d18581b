// Package dynamo provides the core primitives for circlesim.
//
// The package defines the value types and interfaces the physics world and
// the simulation driver are built on:
//
//   - [Vec2]: immutable 2D vector
//   - [Body]: mutable dynamic state with semi-implicit Euler integration
//   - [System]: anything that advances in fixed steps (a physics world)
//   - [Integrator]: pluggable body integration scheme
//   - [Simulator]: drives a System for a fixed duration with metrics
//
// # Example
//
//	w, _ := physics.NewWorld(800, 600)
//	c, _ := physics.NewCircle(dynamo.V(400, 100), 20, physics.White)
//	w.AddBody(c)
//	s := dynamo.New(w)
//	result, _ := s.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Bodies and Simulators are NOT thread-safe. For parallel runs use
// [Ensemble], which builds one independent System per goroutine.
package dynamo
