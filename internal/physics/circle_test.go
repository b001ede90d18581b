package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/physics"
)

var _ = Describe("Circle", func() {
	It("derives mass from area", func() {
		c, err := physics.NewCircle(dynamo.V(0, 0), 20, physics.White)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Mass).To(BeNumerically("~", math.Pi*400, 1e-9))
		Expect(c.Restitution).To(Equal(dynamo.DefaultRestitution))
	})

	It("accepts an explicit mass", func() {
		c, err := physics.NewCircleWithMass(dynamo.V(0, 0), 5, 2, physics.White)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Mass).To(Equal(2.0))
		Expect(c.Radius()).To(Equal(5.0))
	})

	DescribeTable("rejects invalid parameters",
		func(radius, mass float64) {
			_, err := physics.NewCircleWithMass(dynamo.V(0, 0), radius, mass, physics.White)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("zero radius", 0.0, 1.0),
		Entry("negative radius", -3.0, 1.0),
		Entry("NaN radius", math.NaN(), 1.0),
		Entry("zero mass", 10.0, 0.0),
		Entry("negative mass", 10.0, -1.0),
	)

	It("reports its bounding box", func() {
		c, _ := physics.NewCircle(dynamo.V(10, 20), 5, physics.White)
		lo, hi := c.Bounds()
		Expect(lo).To(Equal(dynamo.V(5, 15)))
		Expect(hi).To(Equal(dynamo.V(15, 25)))
	})

	It("picks visible random colours", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 100; i++ {
			col := physics.RandomColor(rng)
			Expect(col.R).To(BeNumerically(">=", 50))
			Expect(col.G).To(BeNumerically(">=", 50))
			Expect(col.B).To(BeNumerically(">=", 50))
		}
	})
})
