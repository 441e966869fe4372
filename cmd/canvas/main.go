package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/canvas"
	"github.com/bodgit/canvas/palette"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

const defaultDB = "canvas.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newCanvas(c *cli.Context, options ...canvas.Option) (*canvas.Canvas, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	options = append([]canvas.Option{
		canvas.WithQuantizer(c.String("quantizer")),
		canvas.WithIterations(c.Int("iterations")),
		canvas.WithWidth(c.Uint("width")),
		canvas.WithColors(c.Int("colors")),
	}, options...)

	return canvas.New(c.String("db"), logger, options...)
}

func main() {
	app := cli.NewApp()

	app.Name = "canvas"
	app.Usage = "Bitmap to GIF conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"CANVAS_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to cache database, empty to disable caching",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "quantizer",
			EnvVars: []string{"CANVAS_QUANTIZER"},
			Value:   "kmeans",
			Usage:   "color quantizer, one of " + strings.Join(palette.Names(), ", "),
		},
		&cli.IntFlag{
			Name:  "iterations",
			Value: palette.DefaultIterations,
			Usage: "quantizer iteration budget",
		},
		&cli.UintFlag{
			Name:  "width",
			Usage: "scale images to this width, 0 keeps the original size",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce images to at most this many colors before encoding, 0 keeps them all",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a bitmap to a GIF",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cv, err := newCanvas(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer cv.Close()

				if err := cv.Convert(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "animate",
			Usage:       "Combine bitmaps into an animated GIF",
			Description: "",
			ArgsUsage:   "OUTPUT FRAME...",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "delay",
					Value: 100,
					Usage: "frame delay in centiseconds",
				},
				&cli.IntFlag{
					Name:  "loop",
					Usage: "number of times to repeat, 0 loops forever",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cv, err := newCanvas(c, canvas.WithLoopCount(c.Int("loop")))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer cv.Close()

				// Skip any blank arguments from shell expansion
				frames := lo.Compact(c.Args().Tail())

				if err := cv.Animate(c.Args().First(), c.Int("delay"), frames...); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "reduce",
			Usage:       "Reduce the colors of a bitmap",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "palette",
					Value: 10,
					Usage: "number of colors to keep",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cv, err := newCanvas(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer cv.Close()

				if err := cv.Reduce(c.Args().Get(0), c.Args().Get(1), c.Int("palette")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and convert every bitmap",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cv, err := newCanvas(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer cv.Close()

				if err := cv.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
