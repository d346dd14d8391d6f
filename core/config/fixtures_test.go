package config

import (
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

// Test types forming a small traversable object graph:
// router --Ports--> []port, router --TxQueue--> queue.

type router struct {
	object.Object
	mtu   uint64
	queue object.Obj
	ports []object.Obj
	drop  object.TracedCallback
}

func newRouter() *router {
	r := &router{}
	object.Construct(r, routerTID)
	return r
}

var routerTID = object.NewTypeID("ns3::cfgtest::Router")

type queue struct {
	object.Object
	capacity uint64
}

func newQueue() *queue {
	q := &queue{}
	object.Construct(q, queueTID)
	return q
}

var queueTID = object.NewTypeID("ns3::cfgtest::Queue")

type port struct {
	object.Object
	rate float64
	tx   object.TracedCallback
}

func newPort() *port {
	p := &port{}
	object.Construct(p, portTID)
	return p
}

var portTID = object.NewTypeID("ns3::cfgtest::Port")

// meter is aggregated alongside a router to exercise the peer wildcard.
type meter struct {
	object.Object
	reading float64
}

func newMeter() *meter {
	m := &meter{}
	object.Construct(m, meterTID)
	return m
}

var meterTID = object.NewTypeID("ns3::cfgtest::Meter")

func init() {
	routerTID.
		SetGroupName("ConfigTest").
		AddConstructor(func() object.Obj { return newRouter() }).
		AddAttribute("Mtu", "link MTU in bytes",
			object.NewUintegerValue(1500),
			object.MakeUintegerAccessor(
				func(r *router) uint64 { return r.mtu },
				func(r *router, v uint64) { r.mtu = v }),
			object.NewUintegerCheckerFull()).
		AddAttributeFlags("TxQueue", "egress queue",
			object.AttrGet|object.AttrConstruct,
			nil,
			object.MakePointerAccessor(
				func(r *router) object.Obj { return r.queue },
				func(r *router, v object.Obj) { r.queue = v }),
			object.NewPointerChecker(queueTID)).
		AddAttributeFlags("Ports", "attached ports",
			object.AttrGet,
			nil,
			object.MakeObjectVectorAccessor(func(r *router) []object.Obj { return r.ports }),
			object.NewObjectVectorChecker()).
		AddTraceSource("Drop", "fired per dropped packet", "(uint32)",
			func(o object.Obj) *object.TracedCallback { return &o.(*router).drop })

	queueTID.
		SetGroupName("ConfigTest").
		AddConstructor(func() object.Obj { return newQueue() }).
		AddAttribute("Capacity", "packets held before dropping",
			object.NewUintegerValue(100),
			object.MakeUintegerAccessor(
				func(q *queue) uint64 { return q.capacity },
				func(q *queue, v uint64) { q.capacity = v }),
			object.NewUintegerCheckerFull())

	portTID.
		SetGroupName("ConfigTest").
		AddConstructor(func() object.Obj { return newPort() }).
		AddAttribute("Rate", "line rate in Mbps",
			object.NewDoubleValue(1),
			object.MakeDoubleAccessor(
				func(p *port) float64 { return p.rate },
				func(p *port, v float64) { p.rate = v }),
			object.NewDoubleChecker(0, 1e6)).
		AddTraceSource("Tx", "fired per transmitted packet", "(uint32)",
			func(o object.Obj) *object.TracedCallback { return &o.(*port).tx })

	meterTID.
		SetGroupName("ConfigTest").
		AddConstructor(func() object.Obj { return newMeter() }).
		AddAttribute("Reading", "last sampled load",
			object.NewDoubleValue(0),
			object.MakeDoubleAccessor(
				func(m *meter) float64 { return m.reading },
				func(m *meter, v float64) { m.reading = v }),
			object.NewDoubleCheckerFull())
}

// host carries a free-form string attribute for store escaping tests.
type host struct {
	object.Object
	name string
}

func newHost() *host {
	h := &host{}
	object.Construct(h, hostTID)
	return h
}

var hostTID = object.NewTypeID("ns3::cfgtest::Host")

func init() {
	hostTID.
		SetGroupName("ConfigTest").
		AddConstructor(func() object.Obj { return newHost() }).
		AddAttribute("Name", "hostname",
			object.NewStringValue(""),
			object.MakeStringAccessor(
				func(h *host) string { return h.name },
				func(h *host, v string) { h.name = v }),
			object.NewStringChecker())
}

// buildTestNet assembles a router with two ports and a queue and registers
// it under the "net" alias. The caller owns cleanup.
func buildTestNet() (*router, *queue, []*port) {
	r := newRouter()
	q := newQueue()
	p0, p1 := newPort(), newPort()
	r.queue = q
	r.ports = []object.Obj{p0, p1}
	RegisterRoot("net", r)
	return r, q, []*port{p0, p1}
}
