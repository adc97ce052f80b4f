package main

import (
	"JarFinder/internal"
	"JarFinder/internal/scanner"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

func main() {
	// -v is --verbose here
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}

	flags := globalFlags()
	app := &cli.App{
		Name:    "JarFinder",
		Usage:   "Search classes, packages and content in JAR/WAR/EAR/ZIP archives and plain files",
		Version: "4.0",
		Flags:   flags,
		Before:  before(flags),
		Commands: []*cli.Command{
			searchCommand("class", "c", "CLASS_NAME", "Search for an exact class name", scanner.ModeExactClass),
			searchCommand("class-contains", "C", "SUBSTRING", "Search for a substring in class names", scanner.ModeClassSubstring),
			searchCommand("package", "p", "PACKAGE", "Search classes by package name", scanner.ModePackage),
			searchCommand("search", "s", "PATTERN", "Search a regex inside JAR entries, class bytecode included", scanner.ModeContent),
			searchCommand("master", "m", "PATTERN", "Search a regex everywhere: JAR, ZIP/WAR/EAR, source, config and text files", scanner.ModeMaster),
			listCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with default values for the flags below",
			EnvVars: []string{"JARFINDER_CONFIG"},
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory to search in",
			Value:   ".",
			EnvVars: []string{"JARFINDER_DIR"},
		}),
		altsrc.NewStringSliceFlag(&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"e"},
			Usage:   "Exclude files/paths containing this string (repeatable)",
			EnvVars: []string{"JARFINDER_EXCLUDE"},
		}),
		altsrc.NewInt64Flag(&cli.Int64Flag{
			Name:    "min-size",
			Usage:   "Minimum size in bytes of top-level files to process (0 - no limit)",
			Value:   0,
			EnvVars: []string{"JARFINDER_MIN_SIZE"},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Number of parallel jobs (default: CPU count)",
			EnvVars: []string{"JARFINDER_JOBS"},
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  "mini",
			Usage: "Mini mode: show only unique file names (one per file)",
		}),
		altsrc.NewStringSliceFlag(&cli.StringSliceFlag{
			Name:  "types",
			Usage: "Entry types read by 'search': * or any of class, source, other",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "depth",
			Usage: "Max directory depth (0 - unlimited)",
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:    "ignore-case",
			Aliases: []string{"i"},
			Usage:   "Case-insensitive regex for 'search' and 'master'",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "export",
			Usage: "Export results to a CSV file",
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show a progress bar on stderr",
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  "breakdown",
			Usage: "Print per-category tables after the statistics",
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs into a rotating file instead of stderr",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "warn",
		}),
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose (debug) logging",
		},
	}
}

func before(flags []cli.Flag) cli.BeforeFunc {
	loadConfig := altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("config"))
	return func(c *cli.Context) error {
		if err := loadConfig(c); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		level := c.String("log-level")
		if c.Bool("verbose") {
			level = "debug"
		}
		internal.InitLogger(c.String("log-file"), level, internal.DefaultLogRotation)
		if c.Bool("no-color") {
			color.NoColor = true
		}
		return nil
	}
}

func searchCommand(name, alias, arg, usage string, mode scanner.Mode) *cli.Command {
	return &cli.Command{
		Name:      name,
		Aliases:   []string{alias},
		Usage:     usage,
		ArgsUsage: arg,
		Action: func(c *cli.Context) error {
			query := c.Args().First()
			if query == "" {
				return cli.Exit(fmt.Sprintf("%s: missing %s", name, arg), 1)
			}
			root, err := validRoot(c.String("dir"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := internal.ScanOptions{
				Mode:       mode,
				Query:      query,
				Root:       root,
				Excludes:   c.StringSlice("exclude"),
				MinSize:    c.Int64("min-size"),
				Threads:    c.Int("jobs"),
				Mini:       c.Bool("mini"),
				Types:      c.StringSlice("types"),
				Depth:      c.Int("depth"),
				IgnoreCase: c.Bool("ignore-case"),
			}
			var bar *barProgress
			// a bar on a redirected stderr is noise in the log
			if c.Bool("progress") && isatty.IsTerminal(os.Stderr.Fd()) {
				bar = newBarProgress(os.Stderr)
				opts.Progress = bar
			}
			if len(opts.Excludes) > 0 {
				logrus.Infof("Exclusions: %v", opts.Excludes)
			}

			res, err := internal.NewEngine().Run(ctx, opts)
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			rep := &internal.Reporter{Out: os.Stdout, Mini: opts.Mini, Excludes: opts.Excludes}
			rep.Results(res.Matches)
			rep.Stats(res.Stats, len(res.Matches))
			if c.Bool("breakdown") {
				rep.Breakdown(res.Stats, res.Matches)
			}

			if out := c.String("export"); out != "" {
				if err := internal.ExportCSV(out, res.Matches); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				fmt.Printf("%s Results exported to %s\n", color.GreenString("SUCCESS"), out)
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "List JAR files and their contents",
		Action: func(c *cli.Context) error {
			root, err := validRoot(c.String("dir"))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			filter := internal.NewExclusionFilter(c.StringSlice("exclude"))
			list, err := internal.Inventory(ctx, root, c.Int("depth"), c.Int("jobs"), filter)
			if err != nil {
				logrus.WithError(err).Warn("listing stopped early")
			}
			rep := &internal.Reporter{Out: os.Stdout}
			rep.Inventory(root, list)
			return nil
		},
	}
}

func validRoot(root string) (string, error) {
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return "", cli.Exit(fmt.Sprintf("not a dir or inaccessible: %s", root), 1)
	}
	return root, nil
}
