package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

// typesCmd dumps the registered TypeIDs with their attributes and trace
// sources, the introspection view of the runtime type system.
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered TypeIDs, attributes and trace sources",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range object.TypeIDNames() {
			tid := object.MustLookupTypeID(name)
			cmd.Printf("%s", name)
			if parent, ok := tid.Parent(); ok {
				cmd.Printf(" : %s", parent.Name())
			}
			if group := tid.GroupName(); group != "" {
				cmd.Printf(" [%s]", group)
			}
			cmd.Println()
			for _, attr := range tid.Attributes() {
				def := "-"
				if attr.Default != nil {
					def = attr.Default.String()
				}
				cmd.Printf("  attribute %-16s default=%-12s flags=%s  %s\n",
					attr.Name, def, flagString(attr.Flags), attr.Help)
			}
			for _, ts := range tid.TraceSources() {
				cmd.Printf("  trace     %-16s %-22s %s\n", ts.Name, ts.Signature, ts.Help)
			}
		}
	},
}

func flagString(f object.AttributeFlags) string {
	out := []byte("---")
	if f&object.AttrGet != 0 {
		out[0] = 'g'
	}
	if f&object.AttrSet != 0 {
		out[1] = 's'
	}
	if f&object.AttrConstruct != 0 {
		out[2] = 'c'
	}
	return string(out)
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
