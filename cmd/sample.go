package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/rng"
)

// PingNode is the demo traffic source driven by the run command. It sends
// a fixed number of messages at a configurable interval, optionally
// jittered, and emits each send on its Tx trace source.
type PingNode struct {
	object.Object
	nodeID   uint64
	interval core.Time
	count    uint64
	jitter   object.Obj // optional ns3::RandomVariableStream
	txTrace  object.TracedCallback
	sent     uint64
}

// PingNodeTypeID identifies ns3::PingNode. The builder chain lives in init
// so the constructor thunk can refer back to the id.
var PingNodeTypeID = object.NewTypeID("ns3::PingNode")

func init() {
	PingNodeTypeID.
		SetGroupName("Demo").
		AddConstructor(func() object.Obj { return NewPingNode() }).
		AddAttribute("Interval", "Delay between consecutive sends.",
			object.NewTimeValue(core.MilliSeconds(100)),
			object.MakeTimeAccessor(
				func(p *PingNode) core.Time { return p.interval },
				func(p *PingNode, v core.Time) { p.interval = v }),
			object.NewTimeCheckerFull()).
		AddAttributeFlags("Count", "Number of messages to send; fixed after initialization.",
			object.AttrGet|object.AttrConstruct,
			object.NewUintegerValue(3),
			object.MakeUintegerAccessor(
				func(p *PingNode) uint64 { return p.count },
				func(p *PingNode, v uint64) { p.count = v }),
			object.NewUintegerCheckerFull()).
		AddAttribute("Jitter", "Random variable added to each interval, none by default.",
			object.NewPointerValue(nil),
			object.MakePointerAccessor(
				func(p *PingNode) object.Obj { return p.jitter },
				func(p *PingNode, v object.Obj) { p.jitter = v }),
			object.NewPointerChecker(rng.RandomVariableTypeID)).
		AddTraceSource("Tx", "Fires on every send with (node id, sequence number).",
			"(uint32,uint32)",
			func(o object.Obj) *object.TracedCallback { return &o.(*PingNode).txTrace })
}

// NewPingNode constructs a node with registered defaults untouched.
func NewPingNode() *PingNode {
	p := &PingNode{interval: core.MilliSeconds(100), count: 3}
	object.Construct(p, PingNodeTypeID)
	return p
}

// SetNodeID names the node's scheduling context.
func (p *PingNode) SetNodeID(id uint64) { p.nodeID = id }

// Start schedules the first send.
func (p *PingNode) Start() {
	core.ScheduleWithContext(uint32(p.nodeID), p.nextDelay(), p.send)
}

func (p *PingNode) nextDelay() core.Time {
	d := p.interval
	if p.jitter != nil {
		if v, ok := p.jitter.(interface{ Value() float64 }); ok {
			d += core.Seconds(v.Value())
		}
	}
	return d
}

func (p *PingNode) send() {
	p.sent++
	logrus.Infof("[tick %09d] node %d sent message %d", core.Now(), p.nodeID, p.sent)
	p.txTrace.Emit(uint32(p.nodeID), uint32(p.sent))
	if p.sent < p.count {
		core.ScheduleWithContext(uint32(p.nodeID), p.nextDelay(), p.send)
	}
}

// DoDispose drops the jitter variable.
func (p *PingNode) DoDispose() {
	p.jitter = nil
}

// NodeContainer exposes the demo nodes to the config namespace through an
// object-vector attribute, so paths like /nodes/NodeList/[0]/Interval
// resolve.
type NodeContainer struct {
	object.Object
	nodes []object.Obj
}

// NodeContainerTypeID identifies ns3::NodeContainer.
var NodeContainerTypeID = object.NewTypeID("ns3::NodeContainer")

func init() {
	NodeContainerTypeID.
		SetGroupName("Demo").
		AddConstructor(func() object.Obj { return NewNodeContainer() }).
		AddAttributeFlags("NodeList", "The nodes in the container.",
			object.AttrGet,
			nil,
			object.MakeObjectVectorAccessor(func(c *NodeContainer) []object.Obj { return c.nodes }),
			object.NewObjectVectorChecker())
}

// NewNodeContainer constructs an empty container.
func NewNodeContainer() *NodeContainer {
	c := &NodeContainer{}
	object.Construct(c, NodeContainerTypeID)
	return c
}

// Add appends a node.
func (c *NodeContainer) Add(o object.Obj) {
	c.nodes = append(c.nodes, o)
}
