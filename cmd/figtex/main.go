package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/flanksource/figtex"
	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/backend"
	"github.com/flanksource/figtex/report"
	"github.com/flanksource/figtex/scene"
	"github.com/flanksource/figtex/shutdown"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var logFlags = logger.Flags{
	Level:       "info",
	LogToStderr: true,
}

func main() {
	shutdown.Listen()
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		shutdown.Run()
		os.Exit(1)
	}
	shutdown.Run()
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "figtex",
		Short: "Convert exported figures to LaTeX-ready SVG/PDF pairs with their label text intact",
		Long: `figtex repairs the text of host-exported vector figures and converts them
into an embeddable PDF + pdf_tex pair via Inkscape.

Hosts replace each label with a registered placeholder before exporting;
figtex matches the placeholders in the exported SVG, restores the original
(escaped, optionally styled) text, recomputes anchors and baselines, fixes
legend geometry, strips the page background, and runs the converter.`,
		Example: `  figtex convert --labels figure.labels.yaml figure.svg
  figtex convert --svg-only --png figure.svg --labels figure.labels.yaml
  figtex demo --svg-only -o /tmp/demo
  figtex probe`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	pf.StringVar(&logFlags.Level, "log-level", "info", "Set the default log level")
	pf.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newProbeCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newConvertCommand() *cobra.Command {
	var manifestFile string
	var configFile string
	options := figtex.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "convert [flags] <figure.svg>",
		Short: "Reconcile an exported SVG against its label manifest and run the backend",
		Long: `Reconcile an already-exported SVG: restore every placeholder listed in the
label manifest to its original text, patch geometry, atomically rewrite the
file, and produce the .pdf and .pdf_tex companions unless --svg-only is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := figtex.LoadOptions(configFile)
				if err != nil {
					return err
				}
				// Flags changed on the command line win over the
				// config file.
				options = mergeFlagOptions(cmd, loaded, options)
			}
			if manifestFile == "" {
				return fmt.Errorf("--labels is required")
			}
			res, err := figtex.ConvertFile(cmd.Context(), args[0], manifestFile, options)
			if err != nil {
				return err
			}
			report.Print(os.Stderr, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestFile, "labels", "", "YAML label manifest written by the host (required)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML options file")
	figtex.BindPFlags(cmd.Flags(), &options)
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}

// mergeFlagOptions starts from the config file values and re-applies only
// the flags the user actually set.
func mergeFlagOptions(cmd *cobra.Command, base, flagged figtex.Options) figtex.Options {
	if !cmd.Flags().Changed("y-corr-factor") {
		flagged.YCorrFactor = base.YCorrFactor
	}
	if !cmd.Flags().Changed("legend-padding") {
		flagged.LegendPadding = base.LegendPadding
	}
	if !cmd.Flags().Changed("font-size-mode") {
		flagged.FontSizeMode = base.FontSizeMode
	}
	if !cmd.Flags().Changed("font-size") {
		flagged.FontSize = base.FontSize
	}
	if !cmd.Flags().Changed("squished-text") {
		flagged.SquishedText = base.SquishedText
	}
	if !cmd.Flags().Changed("squish-factor") {
		flagged.SquishFactor = base.SquishFactor
	}
	if !cmd.Flags().Changed("remove-white-background") {
		flagged.RemoveWhiteBackground = base.RemoveWhiteBackground
	}
	if !cmd.Flags().Changed("export-mode") {
		flagged.ExportMode = base.ExportMode
	}
	if !cmd.Flags().Changed("svg-only") {
		flagged.SVGOnly = base.SVGOnly
	}
	if !cmd.Flags().Changed("verify") {
		flagged.Verify = base.Verify
	}
	if !cmd.Flags().Changed("png") {
		flagged.Preview = base.Preview
	}
	if !cmd.Flags().Changed("png-width") {
		flagged.PreviewWidth = base.PreviewWidth
	}
	if !cmd.Flags().Changed("escape-dollar") {
		flagged.EscapeDollar = base.EscapeDollar
	}
	if !cmd.Flags().Changed("backend") {
		flagged.BackendPath = base.BackendPath
	}
	flagged.ReplaceList = base.ReplaceList
	return flagged
}

func newDemoCommand() *cobra.Command {
	var outputBase string
	options := figtex.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the full pipeline against a built-in sample figure",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := figtex.Convert(cmd.Context(), demoScene(), outputBase, options)
			if err != nil {
				return err
			}
			report.Print(os.Stderr, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputBase, "output", "o", "figtex-demo", "Output base name (without extension)")
	figtex.BindPFlags(cmd.Flags(), &options)
	return cmd
}

// demoScene builds a small figure exercising every element kind.
func demoScene() *scene.Memory {
	m := scene.NewMemory(480, 360)
	title := m.AddText(api.PlainText, 240, 24, "Velocity & pressure <response>")
	title.Align = api.AlignCenter
	title.Size = 14

	m.AddText(api.AxisTick, 40, 340, "0")
	m.AddText(api.AxisTick, 240, 340, "0.5")
	m.AddText(api.AxisTick, 440, 340, "1.0")
	m.AddText(api.AxisExponent, 36, 320, "1e-3")

	red := m.AddText(api.ConstantLineLabel, 240, 180, "limit")
	red.Fill = api.RGB{R: 0.8, G: 0.1, B: 0.1}

	m.AddLegend(api.Box{X: 320, Y: 40, W: 130, H: 60}, "measured", "simulated")
	return m
}

func newProbeCommand() *cobra.Command {
	var backendPath string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check whether a usable backend converter is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ink, err := backend.Find(cmd.Context(), backendPath)
			if err != nil {
				return err
			}
			fmt.Printf("found Inkscape %s at %s\n", ink.Version, ink.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendPath, "backend", "", "Path to the converter binary (default: inkscape on PATH)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figtex %s (commit: %s, built: %s, go: %s)\n",
				version, commit, date, runtime.Version())
		},
	}
}
