package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

func TestPingNode_SendsCountMessagesAtInterval(t *testing.T) {
	defer core.Destroy()

	// GIVEN a node configured through its factory
	p := object.NewFactory("ns3::PingNode").
		Set("Interval", object.NewStringValue("2ms")).
		Set("Count", object.NewUintegerValue(4)).
		Create().(*PingNode)
	p.SetNodeID(3)

	var seqs, ctxs []uint32
	_, err := object.ConnectTrace(p, "Tx", func(args ...any) {
		seqs = append(seqs, args[1].(uint32))
		ctxs = append(ctxs, core.Context())
	})
	require.NoError(t, err)

	// WHEN running
	object.Initialize(p)
	p.Start()
	core.Run()

	// THEN every send fired under the node's context, 2ms apart
	assert.Equal(t, []uint32{1, 2, 3, 4}, seqs)
	assert.Equal(t, []uint32{3, 3, 3, 3}, ctxs)
	assert.Equal(t, core.MilliSeconds(8), core.Now())
}

func TestPingNode_CountIsFixedAfterInitialization(t *testing.T) {
	defer core.Destroy()

	p := NewPingNode()
	require.NoError(t, object.SetAttribute(p, "Count", object.NewUintegerValue(10)))

	object.Initialize(p)
	assert.ErrorIs(t,
		object.SetAttribute(p, "Count", object.NewUintegerValue(1)),
		object.ErrAttributeConstructOnly)
}

func TestNodeContainer_ExposesNodesToConfigPaths(t *testing.T) {
	defer core.Destroy()

	c := NewNodeContainer()
	c.Add(NewPingNode())
	c.Add(NewPingNode())

	v, err := object.GetAttribute(c, "NodeList")
	require.NoError(t, err)
	vec, ok := v.(*object.ObjectVectorValue)
	require.True(t, ok)
	assert.Len(t, vec.Objects, 2)
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "---", flagString(0))
	assert.Equal(t, "g-c", flagString(object.AttrGet|object.AttrConstruct))
	assert.Equal(t, "gsc", flagString(object.AttrGet|object.AttrSet|object.AttrConstruct))
}
