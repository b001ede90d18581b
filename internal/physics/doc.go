// Package physics implements the circle world: shapes, boundary
// containment and all-pairs impulse collision resolution.
//
// Shapes embed a [dynamo.Body] for their dynamics and add geometry on top:
//
//   - [Circle]: radius, colour, area-derived mass
//   - [World]: gravity, integration, containment, collisions
//
// The shape set is closed. Code that depends on geometry switches over the
// concrete types, so adding a shape means adding a case, not touching Body.
//
// # Step order
//
//	spawns -> gravity -> integrate -> contain -> collide (N passes)
//
// A World is not safe for concurrent use, except for [World.Spawn] which
// only appends to a guarded queue drained at the start of the next step.
package physics
