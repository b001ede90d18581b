package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

const frame = 1.0 / 60.0

func mustCircle(x, y, r float64) *physics.Circle {
	c, err := physics.NewCircle(dynamo.V(x, y), r, physics.White)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func mustWorld(w, h float64) *physics.World {
	world, err := physics.NewWorld(w, h)
	Expect(err).NotTo(HaveOccurred())
	return world
}

var _ = Describe("World", func() {
	var world *physics.World

	BeforeEach(func() {
		world = mustWorld(800, 600)
	})

	Describe("construction", func() {
		It("uses the default gravity and a single pass", func() {
			Expect(world.Gravity()).To(Equal(dynamo.V(0, 294)))
			Expect(world.Len()).To(BeZero())
		})

		It("rejects non-positive bounds", func() {
			_, err := physics.NewWorld(0, 600)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			_, err = physics.NewWorld(800, math.Inf(1))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects fewer than one collision pass", func() {
			Expect(world.SetCollisionIterations(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(world.SetCollisionIterations(3)).To(Succeed())
		})
	})

	Describe("Step", func() {
		DescribeTable("rejects invalid timesteps without touching the world",
			func(dt float64) {
				c := mustCircle(400, 300, 10)
				world.AddBody(c)
				Expect(world.Step(dt)).To(MatchError(dynamo.ErrInvalidTimestep))
				Expect(c.Position).To(Equal(dynamo.V(400, 300)))
			},
			Entry("zero", 0.0),
			Entry("negative", -frame),
			Entry("NaN", math.NaN()),
			Entry("Inf", math.Inf(1)),
		)

		It("integrates a force-free body exactly", func() {
			world.SetGravity(dynamo.V(0, 0))
			c := mustCircle(400, 300, 10)
			c.Velocity = dynamo.V(12, -6)
			world.AddBody(c)

			Expect(world.Step(frame)).To(Succeed())

			Expect(c.Position).To(Equal(dynamo.V(400, 300).Add(dynamo.V(12, -6).Scale(frame))))
			Expect(c.Velocity).To(Equal(dynamo.V(12, -6)))
		})

		It("accelerates every body at the gravity rate regardless of mass", func() {
			small := mustCircle(200, 100, 5)
			large := mustCircle(600, 100, 30)
			world.AddBody(small)
			world.AddBody(large)

			for i := 1; i <= 10; i++ {
				Expect(world.Step(frame)).To(Succeed())
				expected := 294 * frame * float64(i)
				Expect(small.Velocity.Y).To(BeNumerically("~", expected, 1e-9))
				Expect(large.Velocity.Y).To(BeNumerically("~", expected, 1e-9))
			}
		})
	})

	Describe("boundary containment", func() {
		BeforeEach(func() {
			world.SetGravity(dynamo.V(0, 0))
		})

		DescribeTable("clamps and reflects at each wall",
			func(pos, vel, wantPos, wantVel dynamo.Vec2) {
				c := mustCircle(pos.X, pos.Y, 10)
				c.Velocity = vel
				world.AddBody(c)

				Expect(world.Step(frame)).To(Succeed())

				Expect(c.Position.X).To(BeNumerically("~", wantPos.X, 1e-9))
				Expect(c.Position.Y).To(BeNumerically("~", wantPos.Y, 1e-9))
				Expect(c.Velocity.X).To(BeNumerically("~", wantVel.X, 1e-9))
				Expect(c.Velocity.Y).To(BeNumerically("~", wantVel.Y, 1e-9))
			},
			Entry("left", dynamo.V(11, 300), dynamo.V(-120, 0), dynamo.V(10, 300), dynamo.V(96, 0)),
			Entry("right", dynamo.V(789, 300), dynamo.V(120, 0), dynamo.V(790, 300), dynamo.V(-96, 0)),
			Entry("top", dynamo.V(400, 11), dynamo.V(0, -120), dynamo.V(400, 10), dynamo.V(0, 96)),
			Entry("bottom", dynamo.V(400, 589), dynamo.V(0, 120), dynamo.V(400, 590), dynamo.V(0, -96)),
			Entry("corner", dynamo.V(11, 589), dynamo.V(-120, 120), dynamo.V(10, 590), dynamo.V(96, -96)),
		)

		It("keeps every circle fully inside after a step", func() {
			c := mustCircle(400, 300, 25)
			c.Velocity = dynamo.V(1e5, -1e5)
			world.AddBody(c)

			Expect(world.Step(frame)).To(Succeed())

			Expect(c.Position.X - c.Radius()).To(BeNumerically(">=", 0))
			Expect(c.Position.X + c.Radius()).To(BeNumerically("<=", 800))
			Expect(c.Position.Y - c.Radius()).To(BeNumerically(">=", 0))
			Expect(c.Position.Y + c.Radius()).To(BeNumerically("<=", 600))
		})
	})

	Describe("spawning", func() {
		It("applies queued spawns at the start of the next step", func() {
			c := mustCircle(400, 100, 10)
			world.Spawn(c)

			Expect(world.Len()).To(BeZero())
			Expect(world.Pending()).To(Equal(1))

			Expect(world.Step(frame)).To(Succeed())

			Expect(world.Len()).To(Equal(1))
			Expect(world.Pending()).To(BeZero())
			Expect(c.Velocity.Y).To(BeNumerically("~", 294*frame, 1e-9))
		})

		It("keeps request order", func() {
			a, b := mustCircle(100, 100, 10), mustCircle(300, 100, 10)
			world.Spawn(a)
			world.Spawn(b)
			Expect(world.Step(frame)).To(Succeed())

			Expect(world.Bodies()[0]).To(BeIdenticalTo(a))
			Expect(world.Bodies()[1]).To(BeIdenticalTo(b))
		})
	})

	Describe("energy", func() {
		It("counts kinetic and gravitational potential energy", func() {
			c := mustCircle(400, 100, 10)
			c.Velocity = dynamo.V(3, 4)
			world.AddBody(c)

			expected := 0.5*c.Mass*25 - c.Mass*294*100
			Expect(world.Energy()).To(BeNumerically("~", expected, 1e-6))
		})
	})

	Describe("end-to-end drop", func() {
		It("falls for 1.5s and then bounces off the floor", func() {
			c := mustCircle(400, 100, 20)
			world.AddBody(c)
			Expect(c.Mass).To(BeNumerically("~", 1256.6, 0.1))

			for i := 0; i < 90; i++ {
				Expect(world.Step(frame)).To(Succeed())
			}
			Expect(c.Velocity.Y).To(BeNumerically("~", 441, 1e-6))
			Expect(c.Position.Y + c.Radius()).To(BeNumerically("<", 600))

			bounceAt := -1
			for i := 91; i <= 200; i++ {
				before := c.Velocity.Y
				Expect(world.Step(frame)).To(Succeed())
				if c.Velocity.Y < 0 {
					bounceAt = i
					Expect(c.Position.Y).To(Equal(580.0))
					Expect(c.Velocity.Y).To(BeNumerically("~", -0.8*(before+294*frame), 1e-6))
					break
				}
			}
			Expect(bounceAt).To(Equal(108))
			Expect(c.Velocity.Y).To(BeNumerically("~", -423.36, 1e-6))
		})
	})

	Describe("determinism", func() {
		build := func() *physics.World {
			w := mustWorld(800, 600)
			for i := 0; i < 12; i++ {
				c := mustCircle(60+float64(i)*55, 80+float64(i%4)*90, 10+float64(i%3)*6)
				c.Velocity = dynamo.V(float64(i*17%90-45), float64(i*31%70-35))
				w.AddBody(c)
			}
			return w
		}

		It("replays bit-identically", func() {
			a, b := build(), build()
			for i := 0; i < 300; i++ {
				Expect(a.Step(frame)).To(Succeed())
				Expect(b.Step(frame)).To(Succeed())
			}
			Expect(a.Fingerprint()).To(Equal(b.Fingerprint()))
			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
		})

		It("tells different trajectories apart", func() {
			a, b := build(), build()
			b.Bodies()[0].Dynamics().Velocity.X += 1e-9
			for i := 0; i < 10; i++ {
				Expect(a.Step(frame)).To(Succeed())
				Expect(b.Step(frame)).To(Succeed())
			}
			Expect(a.Fingerprint()).NotTo(Equal(b.Fingerprint()))
		})
	})

	Describe("collisions", func() {
		BeforeEach(func() {
			world.SetGravity(dynamo.V(0, 0))
		})

		It("records contacts with ascending indices", func() {
			world.AddBody(mustCircle(100, 100, 10))
			world.AddBody(mustCircle(400, 400, 10))
			world.AddBody(mustCircle(115, 100, 10))

			Expect(world.Step(frame)).To(Succeed())

			contacts := world.Contacts()
			Expect(contacts).To(HaveLen(1))
			Expect(contacts[0].I).To(Equal(0))
			Expect(contacts[0].J).To(Equal(2))
			Expect(contacts[0].Penetration).To(BeNumerically("~", 5, 1e-9))
		})

		It("runs the configured number of passes", func() {
			// separating the first pair in pass one pushes the middle
			// circle into the third; pass two resolves what remains
			chain := func(passes int) []physics.Contact {
				w := mustWorld(800, 600)
				w.SetGravity(dynamo.V(0, 0))
				Expect(w.SetCollisionIterations(passes)).To(Succeed())
				w.AddBody(mustCircle(100, 100, 10))
				w.AddBody(mustCircle(115, 100, 10))
				w.AddBody(mustCircle(135, 100, 10))
				Expect(w.Step(frame)).To(Succeed())
				return w.Contacts()
			}

			one := chain(1)
			Expect(one).To(HaveLen(2))
			Expect(one[0].Penetration).To(BeNumerically("~", 5, 1e-9))
			Expect(one[1].Penetration).To(BeNumerically("~", 2.5, 1e-9))

			two := chain(2)
			Expect(two).To(HaveLen(4))
			Expect(two[2].I).To(Equal(0))
			Expect(two[2].J).To(Equal(1))
			Expect(two[2].Penetration).To(BeNumerically("~", 1.25, 1e-9))
			Expect(two[3].I).To(Equal(1))
			Expect(two[3].J).To(Equal(2))
			Expect(two[3].Penetration).To(BeNumerically("~", 0.625, 1e-9))
		})
	})
})

var _ = Describe("ResolveCircles", func() {
	It("swaps velocities in an elastic head-on collision of equal masses", func() {
		a, b := mustCircle(100, 100, 10), mustCircle(115, 100, 10)
		Expect(a.SetRestitution(1)).To(Succeed())
		Expect(b.SetRestitution(1)).To(Succeed())
		a.Velocity = dynamo.V(50, 0)
		b.Velocity = dynamo.V(-50, 0)

		c, ok := physics.ResolveCircles(a, b)

		Expect(ok).To(BeTrue())
		Expect(c.Normal).To(Equal(dynamo.V(1, 0)))
		Expect(a.Velocity.X).To(BeNumerically("~", -50, 1e-9))
		Expect(b.Velocity.X).To(BeNumerically("~", 50, 1e-9))
		Expect(a.Velocity.Y).To(BeZero())
		Expect(b.Velocity.Y).To(BeZero())

		before := 0.5 * a.Mass * 2500 * 2
		after := a.KineticEnergy() + b.KineticEnergy()
		Expect(after).To(BeNumerically("~", before, 1e-6))
	})

	It("uses the smaller restitution", func() {
		a, b := mustCircle(100, 100, 10), mustCircle(115, 100, 10)
		Expect(a.SetRestitution(1)).To(Succeed())
		Expect(b.SetRestitution(0)).To(Succeed())
		a.Velocity = dynamo.V(50, 0)
		b.Velocity = dynamo.V(-50, 0)

		physics.ResolveCircles(a, b)

		Expect(a.Velocity.X).To(BeNumerically("~", 0, 1e-9))
		Expect(b.Velocity.X).To(BeNumerically("~", 0, 1e-9))
	})

	It("moves overlapping centres towards the contact distance", func() {
		a, b := mustCircle(100, 100, 10), mustCircle(106, 108, 10)
		before := a.Position.Dist(b.Position)

		_, ok := physics.ResolveCircles(a, b)

		Expect(ok).To(BeTrue())
		after := a.Position.Dist(b.Position)
		Expect(math.Abs(20 - after)).To(BeNumerically("<", math.Abs(20-before)))
	})

	It("ignores pairs that do not overlap", func() {
		a, b := mustCircle(100, 100, 10), mustCircle(120, 100, 10)
		a.Velocity = dynamo.V(10, 0)

		_, ok := physics.ResolveCircles(a, b)

		Expect(ok).To(BeFalse())
		Expect(a.Velocity).To(Equal(dynamo.V(10, 0)))
		Expect(a.Position).To(Equal(dynamo.V(100, 100)))
	})

	It("separates coincident centres along +x", func() {
		a, b := mustCircle(300, 300, 10), mustCircle(300, 300, 10)

		var c physics.Contact
		var ok bool
		Expect(func() { c, ok = physics.ResolveCircles(a, b) }).NotTo(Panic())

		Expect(ok).To(BeTrue())
		Expect(c.Normal).To(Equal(dynamo.V(1, 0)))
		Expect(c.Penetration).To(Equal(20.0))
		Expect(a.Position).To(Equal(dynamo.V(290, 300)))
		Expect(b.Position).To(Equal(dynamo.V(310, 300)))
		Expect(a.Velocity.IsFinite()).To(BeTrue())
		Expect(b.Velocity.IsFinite()).To(BeTrue())
	})

	It("corrects separating pairs without an impulse", func() {
		a, b := mustCircle(100, 100, 10), mustCircle(110, 100, 10)
		a.Velocity = dynamo.V(-5, 0)
		b.Velocity = dynamo.V(5, 0)

		c, ok := physics.ResolveCircles(a, b)

		Expect(ok).To(BeTrue())
		Expect(c.Impulse).To(BeZero())
		Expect(a.Velocity).To(Equal(dynamo.V(-5, 0)))
		Expect(b.Velocity).To(Equal(dynamo.V(5, 0)))
		Expect(a.Position).To(Equal(dynamo.V(95, 100)))
		Expect(b.Position).To(Equal(dynamo.V(115, 100)))
	})
})
