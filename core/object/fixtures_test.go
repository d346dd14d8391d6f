package object

import (
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
)

// Shared test types. Registration is process-global, so every type used by
// the tests in this package is declared exactly once here.

var sensorModeNames = map[int64]string{0: "Idle", 1: "Active"}

type sensor struct {
	Object
	interval core.Time
	gain     float64
	enabled  bool
	label    string
	mode     int64
	seed     int64
	samples  uint64
	sample   TracedCallback
	inits    int
	disposes int
}

func newSensor() *sensor {
	s := &sensor{}
	Construct(s, sensorTID)
	return s
}

func (s *sensor) DoInitialize() { s.inits++ }
func (s *sensor) DoDispose()   { s.disposes++ }

// promoted into derived types so the trace accessor covers descendants
func (s *sensor) sampleTrace() *TracedCallback { return &s.sample }

var sensorTID = NewTypeID("ns3::test::Sensor")

func init() {
	sensorTID.
		SetGroupName("Test").
		AddConstructor(func() Obj { return newSensor() }).
		AddAttribute("Interval", "sampling period",
			NewTimeValue(core.MilliSeconds(100)),
			MakeTimeAccessor(
				func(s *sensor) core.Time { return s.interval },
				func(s *sensor, v core.Time) { s.interval = v }),
			NewTimeCheckerFull()).
		AddAttribute("Gain", "amplifier gain in dB",
			NewDoubleValue(1.0),
			MakeDoubleAccessor(
				func(s *sensor) float64 { return s.gain },
				func(s *sensor, v float64) { s.gain = v }),
			NewDoubleChecker(0, 100)).
		AddAttribute("Enabled", "whether the sensor samples at all",
			NewBooleanValue(true),
			MakeBooleanAccessor(
				func(s *sensor) bool { return s.enabled },
				func(s *sensor, v bool) { s.enabled = v }),
			NewBooleanChecker()).
		AddAttribute("Label", "free-form tag",
			NewStringValue("sensor"),
			MakeStringAccessor(
				func(s *sensor) string { return s.label },
				func(s *sensor, v string) { s.label = v }),
			NewStringChecker()).
		AddAttribute("Mode", "operating mode",
			NewEnumValue(sensorModeNames, 0),
			MakeEnumAccessor(sensorModeNames,
				func(s *sensor) int64 { return s.mode },
				func(s *sensor, v int64) { s.mode = v }),
			NewEnumChecker(sensorModeNames)).
		AddAttributeFlags("Seed", "stream seed, fixed after initialization",
			AttrGet|AttrConstruct,
			NewIntegerValue(1),
			MakeIntegerAccessor(
				func(s *sensor) int64 { return s.seed },
				func(s *sensor, v int64) { s.seed = v }),
			NewIntegerCheckerFull()).
		AddAttributeFlags("Samples", "number of readings taken",
			AttrGet,
			nil,
			MakeUintegerAccessor(
				func(s *sensor) uint64 { return s.samples },
				nil),
			NewUintegerCheckerFull()).
		AddAttributeFlags("Token", "write-only access token",
			AttrSet,
			nil,
			MakeStringAccessor(
				nil,
				func(s *sensor, v string) { s.label = v }),
			NewStringChecker()).
		AddTraceSource("Sample", "fired per reading", "(float64)",
			func(o Obj) *TracedCallback {
				return o.(interface{ sampleTrace() *TracedCallback }).sampleTrace()
			})
}

type thermalSensor struct {
	sensor
	offset float64
}

func newThermalSensor() *thermalSensor {
	t := &thermalSensor{}
	Construct(t, thermalTID)
	return t
}

var thermalTID = NewTypeID("ns3::test::ThermalSensor")

func init() {
	thermalTID.
		SetParent(sensorTID).
		SetGroupName("Test").
		AddConstructor(func() Obj { return newThermalSensor() }).
		AddAttribute("Offset", "calibration offset",
			NewDoubleValue(0),
			MakeDoubleAccessor(
				func(t *thermalSensor) float64 { return t.offset },
				func(t *thermalSensor, v float64) { t.offset = v }),
			NewDoubleCheckerFull())
}

type mobilityModel struct {
	Object
	inits int
}

func newMobilityModel() *mobilityModel {
	m := &mobilityModel{}
	Construct(m, mobilityTID)
	return m
}

func (m *mobilityModel) DoInitialize() { m.inits++ }

var mobilityTID = NewTypeID("ns3::test::MobilityModel")

func init() {
	mobilityTID.SetGroupName("Test").AddConstructor(func() Obj { return newMobilityModel() })
}

type energyModel struct {
	Object
	disposes int
}

func newEnergyModel() *energyModel {
	e := &energyModel{}
	Construct(e, energyTID)
	return e
}

func (e *energyModel) DoDispose() { e.disposes++ }

var energyTID = NewTypeID("ns3::test::EnergyModel")

func init() {
	energyTID.SetGroupName("Test").AddConstructor(func() Obj { return newEnergyModel() })
}
