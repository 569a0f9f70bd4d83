package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/biosignalsplux/biosignals-go/biosig/hrv"
	"github.com/biosignalsplux/biosignals-go/publish/notebook"
	"github.com/biosignalsplux/biosignals-go/publish/render"
	"github.com/biosignalsplux/biosignals-go/publish/site"
	"github.com/biosignalsplux/biosignals-go/samples"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "biosignals",
	Short: "biosignalsnotebooks companion toolkit",
	Long: `biosignals builds the static HTML companion site from the notebook
tree and works with the signal sample library: EDF metadata dumps and
heart rate variability reports straight from an ECG channel.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	buildWatch bool

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the HTML companion site from the notebook tree",
		Long: `Converts every notebook in the configured category tree to HTML,
injects header and footer cells, copies the asset directories and emits
the group-by index pages. With --watch the tree is monitored and changed
notebooks are rebuilt in place.`,
		RunE: runBuild,
	}
)

var (
	convertOut string
	convertCSS string

	convertCmd = &cobra.Command{
		Use:   "convert [notebook.ipynb]",
		Short: "Convert a single notebook to HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
)

var (
	injectBinderURL  string
	injectHeaderFile string
	injectFooterFile string

	injectCmd = &cobra.Command{
		Use:   "inject [environment-dir]",
		Short: "Rewrite header and footer cells across the notebook tree",
		Long: `Walks the categories tree under the given environment directory and
replaces or inserts the tagged header and footer cells of every
notebook, filling the download and binder link placeholders.`,
		Args: cobra.ExactArgs(1),
		RunE: runInject,
	}
)

var (
	edfInfoOutDir string

	edfInfoCmd = &cobra.Command{
		Use:   "edfinfo [file-or-dir]",
		Short: "Dump EDF metadata and per-channel statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runEDFInfo,
	}
)

var (
	hrvChannel int

	hrvCmd = &cobra.Command{
		Use:   "hrv [file.edf]",
		Short: "Report heart rate variability parameters from an ECG channel",
		Args:  cobra.ExactArgs(1),
		RunE:  runHRV,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	buildCmd.Flags().StringVarP(&configPath, "config", "c", "", "Site configuration file (YAML)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild notebooks as they change")

	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file (default <name>_rev.html beside the input)")
	convertCmd.Flags().StringVar(&convertCSS, "css", "", "Stylesheet to inline into the page")

	injectCmd.Flags().StringVar(&injectBinderURL, "binder-url", "", "Override the binder service the header links to")
	injectCmd.Flags().StringVar(&injectHeaderFile, "header-file", "", "Markdown file replacing the built-in header cell")
	injectCmd.Flags().StringVar(&injectFooterFile, "footer-file", "", "Markdown file replacing the built-in footer cell")

	edfInfoCmd.Flags().StringVarP(&edfInfoOutDir, "out-dir", "o", "", "Write <name>_info.json files here instead of stdout")

	hrvCmd.Flags().IntVar(&hrvChannel, "channel", 0, "ECG channel index inside the EDF file")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(edfInfoCmd)
	rootCmd.AddCommand(hrvCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := site.LoadConfig(configPath)
	if err != nil {
		return err
	}

	builder, err := site.NewBuilder(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("converted %d notebooks, %d index pages\n", len(result.Notebooks), len(result.Pages))

	if !buildWatch {
		return nil
	}

	watcher, err := site.NewWatcher(builder)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	src := args[0]
	nb, err := notebook.Read(src)
	if err != nil {
		return err
	}

	var opts []render.Option
	if convertCSS != "" {
		css, err := os.ReadFile(convertCSS)
		if err != nil {
			return fmt.Errorf("reading stylesheet: %w", err)
		}
		opts = append(opts, render.WithCSS(string(css)))
	}
	renderer, err := render.New(opts...)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(src), ".ipynb")
	title := notebook.Harvest(nb, "", name).Title
	if title == "" {
		title = name
	}

	page, err := renderer.Render(nb, title)
	if err != nil {
		return err
	}

	out := convertOut
	if out == "" {
		out = filepath.Join(filepath.Dir(src), name+"_rev.html")
	}
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	logger.Info("converted notebook", zap.String("input", src), zap.String("output", out))
	return nil
}

func runInject(cmd *cobra.Command, args []string) error {
	injector := notebook.Injector{
		Header:        notebook.DefaultHeader,
		Footer:        notebook.DefaultFooter,
		BinderBaseURL: injectBinderURL,
	}
	if injectHeaderFile != "" {
		data, err := os.ReadFile(injectHeaderFile)
		if err != nil {
			return fmt.Errorf("reading header template: %w", err)
		}
		injector.Header = string(data)
	}
	if injectFooterFile != "" {
		data, err := os.ReadFile(injectFooterFile)
		if err != nil {
			return fmt.Errorf("reading footer template: %w", err)
		}
		injector.Footer = string(data)
	}

	root := filepath.Join(args[0], "categories")
	categories, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading categories: %w", err)
	}

	var updated int
	for _, category := range categories {
		if !category.IsDir() || strings.Contains(category.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, category.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading category %s: %w", category.Name(), err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ipynb") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			name := strings.TrimSuffix(entry.Name(), ".ipynb")

			nb, err := notebook.Read(path)
			if err != nil {
				return err
			}
			if err := injector.Inject(nb, category.Name(), name); err != nil {
				return err
			}
			if err := nb.Write(path); err != nil {
				return err
			}
			updated++
			logger.Debug("injected header and footer", zap.String("notebook", path))
		}
	}
	fmt.Printf("updated %d notebooks\n", updated)
	return nil
}

func runEDFInfo(cmd *cobra.Command, args []string) error {
	target := args[0]

	stat, err := os.Stat(target)
	if err != nil {
		return err
	}

	var records []*samples.Record
	if stat.IsDir() {
		records, err = samples.Scan(target)
		if err != nil {
			return err
		}
	} else {
		rec, err := samples.Describe(target)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		if edfInfoOutDir != "" {
			path, err := samples.WriteInfoJSON(rec, edfInfoOutDir)
			if err != nil {
				return err
			}
			logger.Info("wrote metadata", zap.String("file", path))
			continue
		}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

func runHRV(cmd *cobra.Command, args []string) error {
	ecg, sampleRate, err := samples.ReadChannel(args[0], hrvChannel)
	if err != nil {
		return err
	}

	params, err := hrv.FromECG(ecg, sampleRate)
	if err != nil {
		return err
	}

	fmt.Printf("RR interval   min %.4f s  avg %.4f s  max %.4f s\n", params.MinRR, params.AvgRR, params.MaxRR)
	fmt.Printf("Heart rate    min %.1f bpm  avg %.1f bpm  max %.1f bpm\n", params.MinBPM, params.AvgBPM, params.MaxBPM)
	fmt.Printf("SDNN          %.4f s\n", params.SDNN)
	fmt.Printf("Poincare      SD1 %.4f  SD2 %.4f  SD1/SD2 %.4f\n", params.SD1, params.SD2, params.SD1SD2)
	fmt.Printf("NN20          %d (%d%%)\n", params.NN20, params.PNN20)
	fmt.Printf("NN50          %d (%d%%)\n", params.NN50, params.PNN50)
	fmt.Printf("Band power    ULF %.5f  VLF %.5f  LF %.5f  HF %.5f\n",
		params.ULFPower, params.VLFPower, params.LFPower, params.HFPower)
	fmt.Printf("LF/HF ratio   %.4f\n", params.LFHFRatio)
	fmt.Printf("Total power   %.5f\n", params.TotalPower)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
