package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core"
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/config"
	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

var (
	stopAt       float64 // Simulation end time (in seconds)
	numNodes     int     // Number of demo nodes
	interval     string  // Send interval as a time string
	count        uint64  // Messages per node
	jitterMean   float64 // Mean of the exponential interval jitter (in seconds)
	realtime     bool    // Pace the loop against wall clock
	hardLimit    bool    // Abort on missed realtime deadlines
	toleranceMS  int64   // Realtime tolerance (in milliseconds)
	configLoad   string  // Config store to load before the run
	configSave   string  // Config store to write after setup
	configFormat string  // Config store format (text, xml, yaml)
	eventTrace   string  // File for the per-event trace record
)

// runCmd wires the demo simulation: a container of PingNodes sending on a
// schedule, observed through the config namespace.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo simulation",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := config.ParseFormat(configFormat)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if eventTrace != "" {
			f, err := os.Create(eventTrace)
			if err != nil {
				logrus.Fatalf("unable to open event trace file: %v", err)
			}
			defer f.Close()
			core.EnableEventTrace(f)
		}

		if realtime {
			mode := core.BestEffort
			if hardLimit {
				mode = core.HardLimit
			}
			core.UseRealtime(mode, time.Duration(toleranceMS)*time.Millisecond)
		}

		ivl, err := core.ParseTime(interval)
		if err != nil {
			logrus.Fatalf("invalid --interval: %v", err)
		}

		factory := object.NewFactory("ns3::PingNode").
			Set("Interval", object.NewTimeValue(ivl)).
			Set("Count", object.NewUintegerValue(count))
		if jitterMean > 0 {
			jitter := object.NewFactory("ns3::ExponentialRandomVariable").
				Set("Mean", object.NewDoubleValue(jitterMean)).
				Create()
			factory.Set("Jitter", object.NewPointerValue(jitter))
		}

		container := NewNodeContainer()
		for i := 0; i < numNodes; i++ {
			node := factory.Create().(*PingNode)
			node.SetNodeID(uint64(i))
			container.Add(node)
		}
		config.RegisterRoot("nodes", container)
		defer config.UnregisterRoot("nodes")

		if configLoad != "" {
			f, err := os.Open(configLoad)
			if err != nil {
				logrus.Fatalf("unable to open config store: %v", err)
			}
			if err := config.Load(f, format); err != nil {
				logrus.Errorf("config load: %v", err)
			}
			f.Close()
		}

		sent := 0
		sub := config.Connect("/nodes/NodeList/*/Tx", func(args ...any) {
			sent++
		})
		defer config.Disconnect(sub)
		logrus.Infof("Attached %d trace sinks", sub.Count())

		for _, o := range container.nodes {
			node := o.(*PingNode)
			object.Initialize(node)
			node.Start()
		}

		if configSave != "" {
			f, err := os.Create(configSave)
			if err != nil {
				logrus.Fatalf("unable to create config store: %v", err)
			}
			if err := config.Save(f, format); err != nil {
				logrus.Errorf("config save: %v", err)
			}
			f.Close()
		}

		core.StopAt(core.Seconds(stopAt))
		startTime := time.Now()
		core.Run()
		logrus.Infof("Event loop done at tick %d after %v", core.Now(), time.Since(startTime))

		cmd.Printf("nodes=%d messages=%d stop=%v\n", numNodes, sent, core.Now())

		for _, o := range container.nodes {
			object.Dispose(o)
		}
		core.Destroy()
	},
}

func init() {
	runCmd.Flags().Float64Var(&stopAt, "stop-at", 10.0, "Simulation end time (seconds)")
	runCmd.Flags().IntVar(&numNodes, "nodes", 2, "Number of demo nodes")
	runCmd.Flags().StringVar(&interval, "interval", "100ms", "Send interval (e.g. 100ms, 2s)")
	runCmd.Flags().Uint64Var(&count, "count", 3, "Messages per node")
	runCmd.Flags().Float64Var(&jitterMean, "jitter-mean", 0, "Mean exponential jitter added to intervals (seconds, 0 disables)")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Pace events against wall clock")
	runCmd.Flags().BoolVar(&hardLimit, "hard-limit", false, "Abort when a realtime deadline is missed")
	runCmd.Flags().Int64Var(&toleranceMS, "tolerance-ms", 100, "Realtime miss tolerance (milliseconds)")
	runCmd.Flags().StringVar(&configLoad, "config-load", "", "Config store file to load before the run")
	runCmd.Flags().StringVar(&configSave, "config-save", "", "Config store file to write after setup")
	runCmd.Flags().StringVar(&configFormat, "config-format", "text", "Config store format (text, xml, yaml)")
	runCmd.Flags().StringVar(&eventTrace, "event-trace", "", "File for the per-event trace record")

	rootCmd.AddCommand(runCmd)
}
