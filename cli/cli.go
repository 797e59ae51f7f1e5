package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rollseg/cli/cmd"
	"github.com/ardnew/rollseg/pkg"
	"github.com/ardnew/rollseg/roll"
	"github.com/ardnew/rollseg/source"
)

// CLI is the top-level command-line interface for rollseg.
type CLI struct {
	Log    logConfig    `embed:"" group:"log"    prefix:"log-"`
	Pprof  pprofConfig  `embed:"" group:"pprof"  prefix:"pprof-"`
	Marker markerConfig `embed:"" group:"marker" prefix:"marker-"`
	Input  inputConfig  `embed:"" group:"input"  prefix:"input-"`

	Path    []string         `help:"Directories searched for relative roll names, before those in ${pathEnv}." placeholder:"DIR" short:"P"`
	Workers int              `default:"1"                                                                    help:"Number of roll ranges segmented concurrently."`
	Version kong.VersionFlag `help:"Print version and exit."                                                 short:"V"`

	Init  cmd.Init  `cmd:"" help:"Write the configuration file."`
	Split cmd.Split `cmd:"" default:"withargs" help:"Segment a roll and write its parcel table."`
	Get   cmd.Get   `cmd:"" help:"Print the text of parcels by print-key code."`
	Keys  cmd.Keys  `cmd:"" help:"List the print-key codes of a roll."`
	Check cmd.Check `cmd:"" help:"Validate a roll and report its parcel count."`
	Repl  cmd.Repl  `cmd:"" help:"Look up parcels interactively."`
}

// Run executes the rollseg CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// exits early, such as after printing help or the version.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, os.Stdout, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	stdout io.Writer,
	args []string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version,
		"pathEnv":            source.PathEnv(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Marker.vars()).
		CloneWith(cli.Input.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	var groups []kong.Group

	for _, g := range []kong.Group{
		cli.Log.group(), cli.Pprof.group(), cli.Marker.group(), cli.Input.group(),
	} {
		if g.Key != "" {
			groups = append(groups, g)
		}
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, os.Stderr),
		kong.ExplicitGroups(groups),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolveYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	settings, err := cli.settings(stdout)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, settings)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// settings returns the command settings selected by the global flags.
func (c *CLI) settings(stdout io.Writer) (*cmd.Settings, error) {
	opts, err := c.Marker.options()
	if err != nil {
		return nil, err
	}

	return &cmd.Settings{
		Options: append(opts, roll.WithWorkers(c.Workers)),
		Format:  c.Input.Format,
		Path:    source.SearchPath(c.Path...),
		Cache:   new(roll.Cache),
		Stdout:  stdout,
	}, nil
}
