package rng

import (
	"math"

	"github.com/iti/rngstream"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

// RandomVariableTypeID is the abstract parent of every random variable
// type. It carries no attributes of its own; concrete distributions hang
// their parameters off it.
var RandomVariableTypeID = object.NewTypeID("ns3::RandomVariableStream").
	SetGroupName("Core")

// variable is the kernel shared by all distributions: the embedded object
// record plus a lazily allocated substream.
type variable struct {
	object.Object
	g *rngstream.RngStream
}

func (v *variable) u01() float64 {
	if v.g == nil {
		v.g = newStream(v.TypeID().Name())
	}
	return v.g.RandU01()
}

// DoDispose drops the substream so a disposed variable cannot keep
// drawing.
func (v *variable) DoDispose() {
	v.g = nil
}

// === Uniform ===

// Uniform draws from [Min, Max).
type Uniform struct {
	variable
	min float64
	max float64
}

// UniformTypeID identifies ns3::UniformRandomVariable. The builder chain
// lives in init so the constructor thunk can refer back to the id.
var UniformTypeID = object.NewTypeID("ns3::UniformRandomVariable")

func init() {
	UniformTypeID.
		SetParent(RandomVariableTypeID).
		SetGroupName("Core").
		AddConstructor(func() object.Obj { return NewUniform() }).
		AddAttribute("Min", "Lower bound of the interval values are drawn from.",
			object.NewDoubleValue(0),
			object.MakeDoubleAccessor(
				func(u *Uniform) float64 { return u.min },
				func(u *Uniform, v float64) { u.min = v }),
			object.NewDoubleCheckerFull()).
		AddAttribute("Max", "Upper bound of the interval values are drawn from.",
			object.NewDoubleValue(1),
			object.MakeDoubleAccessor(
				func(u *Uniform) float64 { return u.max },
				func(u *Uniform, v float64) { u.max = v }),
			object.NewDoubleCheckerFull())
}

// NewUniform constructs a uniform variable over [0, 1).
func NewUniform() *Uniform {
	u := &Uniform{min: 0, max: 1}
	object.Construct(u, UniformTypeID)
	return u
}

// Value draws the next variate.
func (u *Uniform) Value() float64 {
	return u.min + u.u01()*(u.max-u.min)
}

// === Exponential ===

// Exponential draws from an exponential distribution with the given mean,
// optionally truncated at Bound (0 disables truncation).
type Exponential struct {
	variable
	mean  float64
	bound float64
}

// ExponentialTypeID identifies ns3::ExponentialRandomVariable.
var ExponentialTypeID = object.NewTypeID("ns3::ExponentialRandomVariable")

func init() {
	ExponentialTypeID.
		SetParent(RandomVariableTypeID).
		SetGroupName("Core").
		AddConstructor(func() object.Obj { return NewExponential() }).
		AddAttribute("Mean", "Mean of the drawn values.",
			object.NewDoubleValue(1),
			object.MakeDoubleAccessor(
				func(e *Exponential) float64 { return e.mean },
				func(e *Exponential, v float64) { e.mean = v }),
			object.NewDoubleChecker(0, math.Inf(1))).
		AddAttribute("Bound", "Upper truncation bound, 0 for none.",
			object.NewDoubleValue(0),
			object.MakeDoubleAccessor(
				func(e *Exponential) float64 { return e.bound },
				func(e *Exponential, v float64) { e.bound = v }),
			object.NewDoubleChecker(0, math.Inf(1)))
}

// NewExponential constructs an exponential variable with mean 1.
func NewExponential() *Exponential {
	e := &Exponential{mean: 1}
	object.Construct(e, ExponentialTypeID)
	return e
}

// Value draws the next variate by inverting the CDF on a uniform draw.
func (e *Exponential) Value() float64 {
	dist := distuv.Exponential{Rate: 1 / e.mean}
	x := dist.Quantile(e.u01())
	if e.bound > 0 && x > e.bound {
		return e.bound
	}
	return x
}

// === Normal ===

// Normal draws from a normal distribution, optionally truncated at
// Mean±Bound (0 disables truncation).
type Normal struct {
	variable
	mean     float64
	variance float64
	bound    float64
}

// NormalTypeID identifies ns3::NormalRandomVariable.
var NormalTypeID = object.NewTypeID("ns3::NormalRandomVariable")

func init() {
	NormalTypeID.
		SetParent(RandomVariableTypeID).
		SetGroupName("Core").
		AddConstructor(func() object.Obj { return NewNormal() }).
		AddAttribute("Mean", "Mean of the drawn values.",
			object.NewDoubleValue(0),
			object.MakeDoubleAccessor(
				func(n *Normal) float64 { return n.mean },
				func(n *Normal, v float64) { n.mean = v }),
			object.NewDoubleCheckerFull()).
		AddAttribute("Variance", "Variance of the drawn values.",
			object.NewDoubleValue(1),
			object.MakeDoubleAccessor(
				func(n *Normal) float64 { return n.variance },
				func(n *Normal, v float64) { n.variance = v }),
			object.NewDoubleChecker(0, math.Inf(1))).
		AddAttribute("Bound", "Half-width of the truncation interval around the mean, 0 for none.",
			object.NewDoubleValue(0),
			object.MakeDoubleAccessor(
				func(n *Normal) float64 { return n.bound },
				func(n *Normal, v float64) { n.bound = v }),
			object.NewDoubleChecker(0, math.Inf(1)))
}

// NewNormal constructs a standard normal variable.
func NewNormal() *Normal {
	n := &Normal{mean: 0, variance: 1}
	object.Construct(n, NormalTypeID)
	return n
}

// Value draws the next variate by inverting the CDF on a uniform draw.
func (n *Normal) Value() float64 {
	dist := distuv.Normal{Mu: n.mean, Sigma: math.Sqrt(n.variance)}
	for {
		x := dist.Quantile(n.u01())
		if n.bound == 0 || math.Abs(x-n.mean) <= n.bound {
			return x
		}
	}
}
