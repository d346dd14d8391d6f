package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"text": FormatText, "txt": FormatText,
		"xml":  FormatXML,
		"yaml": FormatYAML, "yml": FormatYAML,
		"XML": FormatXML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestSaveText_StableOrder(t *testing.T) {
	defer ClearRoots()
	defer object.ClearDefaults()
	r, q, ports := buildTestNet()
	r.mtu = 9000
	q.capacity = 64
	ports[0].rate = 10
	ports[1].rate = 20
	object.MustSetDefault("ns3::cfgtest::Port::Rate", object.NewDoubleValue(5))

	var buf strings.Builder
	require.NoError(t, Save(&buf, FormatText))

	// defaults first, then a depth-first walk with attributes in
	// lexicographic order per object
	want := `default ns3::cfgtest::Port::Rate "5"
/net/Mtu "9000"
/net/Ports/[0]/Rate "10"
/net/Ports/[1]/Rate "20"
/net/TxQueue/Capacity "64"
`
	assert.Equal(t, want, buf.String())
}

func TestLoadText_AppliesValuesAndDefaults(t *testing.T) {
	defer ClearRoots()
	defer object.ClearDefaults()
	r, q, ports := buildTestNet()

	in := `# comment and blank lines are skipped

default ns3::cfgtest::Queue::Capacity "250"
/net/Mtu "1280"
/net/Ports/*/Rate "33"
/net/Ports/[9]/Rate "1"
`
	require.NoError(t, Load(strings.NewReader(in), FormatText))

	assert.Equal(t, uint64(1280), r.mtu)
	assert.Equal(t, 33.0, ports[0].rate)
	assert.Equal(t, 33.0, ports[1].rate)
	assert.Equal(t, uint64(0), q.capacity, "existing object untouched by a default")

	// the default governs objects built afterwards
	fresh := object.CreateWithDefaults(queueTID).(*queue)
	assert.Equal(t, uint64(250), fresh.capacity)
}

func TestLoadText_ReportsMalformedLines(t *testing.T) {
	defer ClearRoots()
	r, _, _ := buildTestNet()

	in := `/net/Mtu "4000"
this-line-has-no-value
/net/Mtu unquoted
`
	err := Load(strings.NewReader(in), FormatText)

	// the good line applied, the bad ones were counted
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 malformed line(s)")
	assert.Equal(t, uint64(4000), r.mtu)
}

func TestStore_SaveLoadSaveFixedPoint(t *testing.T) {
	for name, format := range map[string]Format{
		"text": FormatText, "xml": FormatXML, "yaml": FormatYAML,
	} {
		t.Run(name, func(t *testing.T) {
			defer ClearRoots()
			defer object.ClearDefaults()
			r, q, ports := buildTestNet()
			r.mtu = 9000
			q.capacity = 64
			ports[0].rate = 10
			ports[1].rate = 20
			object.MustSetDefault("ns3::cfgtest::Port::Rate", object.NewDoubleValue(5))

			// GIVEN a saved snapshot
			var first strings.Builder
			require.NoError(t, Save(&first, format))

			// WHEN the state drifts and the snapshot is loaded back
			r.mtu = 1500
			q.capacity = 1
			ports[0].rate = 0
			ports[1].rate = 0
			object.ClearDefaults()
			require.NoError(t, Load(strings.NewReader(first.String()), format))

			// THEN a second save reproduces the snapshot byte for byte
			var second strings.Builder
			require.NoError(t, Save(&second, format))
			assert.Equal(t, first.String(), second.String())
			assert.Equal(t, uint64(9000), r.mtu)
		})
	}
}

func TestStore_QuotingRoundTrip(t *testing.T) {
	defer ClearRoots()

	// GIVEN a string attribute with characters the text format must escape
	h := newHost()
	h.name = `quote " backslash \ tab	end`
	RegisterRoot("host", h)

	var buf strings.Builder
	require.NoError(t, Save(&buf, FormatText))

	h.name = ""
	require.NoError(t, Load(strings.NewReader(buf.String()), FormatText))
	assert.Equal(t, `quote " backslash \ tab	end`, h.name)
}

func TestSave_UnknownFormat(t *testing.T) {
	var buf strings.Builder
	assert.Error(t, Save(&buf, Format(99)))
	assert.Error(t, Load(strings.NewReader(""), Format(99)))
}
