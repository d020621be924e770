package oscillator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
)

var _ = Describe("Params", func() {
	Describe("Validate", func() {
		It("accepts the defaults", func() {
			Expect(oscillator.DefaultParams().Validate()).To(Succeed())
		})

		It("rejects zero mass", func() {
			p := oscillator.DefaultParams()
			p.Mass = 0
			Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects negative mass", func() {
			p := oscillator.DefaultParams()
			p.Mass = -1
			Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a non-positive spring constant", func() {
			p := oscillator.DefaultParams()
			p.Spring = 0
			Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects negative damping", func() {
			p := oscillator.DefaultParams()
			p.Damping = -0.1
			Expect(p.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("allows zero damping and zero drive", func() {
			p := oscillator.Params{Mass: 1, Spring: 1}
			Expect(p.Validate()).To(Succeed())
		})
	})

	Describe("Force", func() {
		It("evaluates F0 sin(wt + phi)", func() {
			p := oscillator.Params{Mass: 1, Spring: 1, ForceAmp: 2, ForceFreq: 3, ForcePhase: 0.5}
			Expect(p.Force(1.2)).To(BeNumerically("~", 2*math.Sin(3*1.2+0.5), 1e-12))
		})
	})

	Describe("NaturalFreq", func() {
		It("returns sqrt(k/m)", func() {
			p := oscillator.Params{Mass: 4, Spring: 1}
			Expect(p.NaturalFreq()).To(BeNumerically("~", 0.5, 1e-12))
		})
	})
})

var _ = Describe("Oscillator", func() {
	It("reduces the second-order equation to first order", func() {
		osc := oscillator.New(oscillator.Params{Mass: 2, Damping: 0.3, Spring: 5, ForceAmp: 1, ForceFreq: 2})
		x := dynamo.State{0.4, -0.7}
		t := 1.5

		dx := osc.Derive(x, t)

		Expect(dx).To(HaveLen(2))
		Expect(dx[0]).To(Equal(x[1]))

		force := 1 * math.Sin(2*t)
		wantAccel := (force - 2*0.3*2*(-0.7) - 5*0.4) / 2
		Expect(dx[1]).To(BeNumerically("~", wantAccel, 1e-12))
	})

	It("is at rest at the origin without a drive", func() {
		osc := oscillator.New(oscillator.Params{Mass: 1, Spring: 1})
		dx := osc.Derive(dynamo.State{0, 0}, 0)
		Expect(dx[0]).To(BeZero())
		Expect(dx[1]).To(BeZero())
	})

	It("splits energy into kinetic and potential parts", func() {
		osc := oscillator.New(oscillator.Params{Mass: 2, Spring: 8})
		x := dynamo.State{0.5, 1.5}

		Expect(osc.Kinetic(x)).To(BeNumerically("~", 0.5*2*1.5*1.5, 1e-12))
		Expect(osc.Potential(x)).To(BeNumerically("~", 0.5*8*0.5*0.5, 1e-12))
		Expect(osc.Energy(x)).To(BeNumerically("~", osc.Kinetic(x)+osc.Potential(x), 1e-12))
	})

	Describe("SetParam", func() {
		It("updates known parameters", func() {
			osc := oscillator.New(oscillator.DefaultParams())
			Expect(osc.SetParam("spring", 4.0)).To(Succeed())
			Expect(osc.Params().Spring).To(Equal(4.0))
		})

		It("rejects unknown names", func() {
			osc := oscillator.New(oscillator.DefaultParams())
			Expect(osc.SetParam("bogus", 1.0)).To(HaveOccurred())
		})

		It("refuses values that would invalidate the parameter set", func() {
			osc := oscillator.New(oscillator.DefaultParams())
			Expect(osc.SetParam("mass", -1.0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(osc.Params().Mass).To(Equal(oscillator.DefaultParams().Mass))
		})
	})
})

var _ = Describe("SteadyState", func() {
	It("matches the closed form at resonance with damping", func() {
		p := oscillator.Params{Mass: 1, Damping: 0.1, Spring: 1, ForceAmp: 1, ForceFreq: 1}
		ss := p.Steady()

		Expect(ss.Amplitude).To(BeNumerically("~", 5.0, 1e-12))
		Expect(ss.PhaseLag).To(BeNumerically("~", math.Pi/2, 1e-12))
		Expect(ss.MeanEnergy()).To(BeNumerically("~", 12.5, 1e-9))
	})

	It("computes amplitude and lag off resonance", func() {
		p := oscillator.Params{Mass: 1, Damping: 0.25, Spring: 2, ForceAmp: 3, ForceFreq: 0.5}
		ss := p.Steady()

		elastic := 2 - 0.25       // k - m w^2
		viscous := 2 * 0.25 * 0.5 // 2 g m w
		wantAmp := 3 / math.Hypot(elastic, viscous)

		Expect(ss.Amplitude).To(BeNumerically("~", wantAmp, 1e-12))
		Expect(ss.PhaseLag).To(BeNumerically("~", math.Atan2(viscous, elastic), 1e-12))
	})

	It("is unbounded for undamped resonance", func() {
		p := oscillator.Params{Mass: 1, Spring: 1, ForceAmp: 1, ForceFreq: 1}
		ss := p.Steady()
		Expect(ss.IsFinite()).To(BeFalse())
	})

	It("has zero response without a drive, even at the undamped resonance pole", func() {
		p := oscillator.Params{Mass: 1, Spring: 1, ForceFreq: 1}
		ss := p.Steady()

		Expect(ss.Amplitude).To(BeZero())
		Expect(ss.IsFinite()).To(BeTrue())
		Expect(ss.At(2.0)).To(BeZero())
		Expect(ss.MeanEnergy()).To(BeZero())
	})

	It("evaluates the lagged sine response", func() {
		p := oscillator.Params{Mass: 1, Damping: 0.2, Spring: 1.5, ForceAmp: 1, ForceFreq: 0.9, ForcePhase: 0.3}
		ss := p.Steady()

		t := 2.4
		want := ss.Amplitude * math.Sin(0.9*t+0.3-ss.PhaseLag)
		Expect(ss.At(t)).To(BeNumerically("~", want, 1e-12))

		series := ss.Series([]float64{0, t})
		Expect(series).To(HaveLen(2))
		Expect(series[1]).To(BeNumerically("~", want, 1e-12))
	})
})
