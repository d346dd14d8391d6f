// Package cmdline is the long-option command line parser exported to
// example programs. It understands --name=value options declared by the
// program, binds --ns3::Type::Attr=value options to global attribute
// defaults, prints --help, and passes positional arguments through.
package cmdline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/Gabrielcarvfer/ns-3-dev-sub002/core/object"
)

// CommandLine collects option declarations and parses a program's
// arguments.
type CommandLine struct {
	fs     *pflag.FlagSet
	usage  string
	args   []string
	out    io.Writer
	exitFn func(int)
}

// New builds a parser with a one-line usage string.
func New(usage string) *CommandLine {
	cl := &CommandLine{
		fs:     pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError),
		usage:  usage,
		out:    os.Stderr,
		exitFn: os.Exit,
	}
	cl.fs.SetOutput(io.Discard)
	cl.fs.BoolP("help", "h", false, "print this help and exit")
	return cl
}

// AddString declares --name=value bound to a string.
func (cl *CommandLine) AddString(name, help, def string) *string {
	return cl.fs.String(name, def, help)
}

// AddInt declares --name=value bound to an int64.
func (cl *CommandLine) AddInt(name, help string, def int64) *int64 {
	return cl.fs.Int64(name, def, help)
}

// AddUint declares --name=value bound to a uint64.
func (cl *CommandLine) AddUint(name, help string, def uint64) *uint64 {
	return cl.fs.Uint64(name, def, help)
}

// AddBool declares --name[=value] bound to a bool.
func (cl *CommandLine) AddBool(name, help string, def bool) *bool {
	return cl.fs.Bool(name, def, help)
}

// AddDouble declares --name=value bound to a float64.
func (cl *CommandLine) AddDouble(name, help string, def float64) *float64 {
	return cl.fs.Float64(name, def, help)
}

// Parse consumes args (without the program name). Unknown options are
// reported and exit non-zero; --help prints the declared options and
// exits zero; positional arguments are retained verbatim.
func (cl *CommandLine) Parse(args []string) {
	if err := cl.parse(args); err != nil {
		fmt.Fprintf(cl.out, "%v\n", err)
		cl.exitFn(1)
	}
}

// parse is Parse without process exit on failure, except for --help which
// still exits 0 after printing.
func (cl *CommandLine) parse(args []string) error {
	rest, err := cl.bindDefaults(args)
	if err != nil {
		return err
	}
	if err := cl.fs.Parse(rest); err != nil {
		return err
	}
	if help, _ := cl.fs.GetBool("help"); help {
		cl.PrintHelp(cl.out)
		cl.exitFn(0)
	}
	cl.args = cl.fs.Args()
	return nil
}

// bindDefaults peels off --ns3::Type::Attr=value options and applies them
// as global attribute defaults before the flag set sees the rest.
func (cl *CommandLine) bindDefaults(args []string) ([]string, error) {
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "--ns3::")
		if !ok {
			rest = append(rest, arg)
			continue
		}
		key, value, found := strings.Cut(name, "=")
		if !found {
			return nil, fmt.Errorf("option --ns3::%s needs =value", key)
		}
		if err := object.SetDefault("ns3::"+key, object.NewStringValue(value)); err != nil {
			return nil, fmt.Errorf("option %s: %v", arg, err)
		}
		logrus.Debugf("cmdline: default ns3::%s = %q", key, value)
	}
	return rest, nil
}

// Args returns the positional arguments left after parsing.
func (cl *CommandLine) Args() []string { return cl.args }

// PrintHelp writes the usage line and the declared options.
func (cl *CommandLine) PrintHelp(w io.Writer) {
	if cl.usage != "" {
		fmt.Fprintf(w, "%s\n\n", cl.usage)
	}
	fmt.Fprintf(w, "Options:\n%s", cl.fs.FlagUsages())
}
