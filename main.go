package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter-sim/config"
	"callcenter-sim/formatter"
	"callcenter-sim/metrics"
	"callcenter-sim/models"
	"callcenter-sim/parser"
	"callcenter-sim/runmodel"
	"callcenter-sim/scheduler"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFlag      string
	formatFlag      string
	strictFlag      bool
	languageFlag    string
	metricsAddrFlag string
	pushURLFlag     string
	waitFlag        bool

	preferredFlag int
	minimumFlag   int
	openEndFlag   bool
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ccsim",
	Short: "Call center model compiler",
	Long: `Checks call center models and compiles them into run models.

The plan command prints the agent shifts of a compiled model, the shifts
command synthesizes shifts from a single staffing curve.`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var checkCmd = &cobra.Command{
	Use:   "check <model.yaml>",
	Short: "Check a model and print the findings",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var planCmd = &cobra.Command{
	Use:   "plan <model.yaml>",
	Short: "Compile a model and print the planned agent shifts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

var shiftsCmd = &cobra.Command{
	Use:   "shifts <curve.csv>",
	Short: "Synthesize shifts from a staffing curve",
	Long: `Reads a staffing curve with 24, 48 or 96 values, one "time, value"
line each, and prints the fixed shifts covering it.`,
	Args: cobra.ExactArgs(1),
	RunE: runShifts,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccsim %s (model format %s)\n", rootCmd.Version, runmodel.FormatVersion)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Configuration file (YAML)")
	flags.StringVar(&formatFlag, "format", "", "Output format: text|json|csv")
	flags.BoolVar(&strictFlag, "strict", true, "Reject dangling references instead of repairing them")
	flags.StringVar(&languageFlag, "language", "", "Language of messages (en, de)")
	flags.StringVar(&metricsAddrFlag, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	flags.StringVar(&pushURLFlag, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	flags.BoolVar(&waitFlag, "wait", false, "Keep process running after completion to allow for metric scraping")

	shiftsCmd.Flags().IntVar(&preferredFlag, "preferred", models.DefaultPreferredShiftLength, "Preferred shift length in half hours")
	shiftsCmd.Flags().IntVar(&minimumFlag, "minimum", models.DefaultMinimumShiftLength, "Minimum shift length in half hours")
	shiftsCmd.Flags().BoolVar(&openEndFlag, "open-end", false, "Let the last shifts of the day end open")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(shiftsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	err := rootCmd.Execute()
	finish()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, applies explicit flags on top of it and
// starts the metrics endpoint.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = formatFlag
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = strictFlag
	}
	if cmd.Flags().Changed("language") {
		cfg.Language = languageFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())

	if metricsAddrFlag != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Infof("Metrics server listening on %s/metrics", metricsAddrFlag)
			if err := http.ListenAndServe(metricsAddrFlag, nil); err != nil {
				log.Errorf("Metrics server error: %v", err)
			}
		}()
	}
	return nil
}

// finish pushes the metrics and optionally waits for a final scrape.
func finish() {
	if pushURLFlag != "" {
		jobName := "callcenter_sim"
		if err := push.New(pushURLFlag, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			log.Errorf("Error pushing to Pushgateway: %v", err)
		} else {
			log.Info("Metrics successfully pushed to Pushgateway")
		}
	}

	if waitFlag && metricsAddrFlag != "" {
		log.Info("Process kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Info("Exiting...")
	} else if metricsAddrFlag != "" && pushURLFlag == "" {
		// Small delay to allow a final scrape of a batch run.
		time.Sleep(100 * time.Millisecond)
	}
}

func readModel(path string, logger *log.Entry) (*models.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	m, err := parser.ParseModel(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	logger.WithFields(log.Fields{
		"model":   m.Name,
		"callers": len(m.Callers),
		"version": m.Version,
	}).Debug("model loaded")
	return m, nil
}

func runLogger(cmd *cobra.Command, path string) *log.Entry {
	return log.WithFields(log.Fields{
		"run":     uuid.NewString(),
		"command": cmd.Name(),
		"file":    path,
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := runLogger(cmd, args[0])
	m, err := readModel(args[0], logger)
	if err != nil {
		return err
	}

	report := runmodel.Check(m, cfg.Options())
	fmt.Fprintln(cmd.OutOrStdout(), report)
	logger.Info("model checked")
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger := runLogger(cmd, args[0])
	m, err := readModel(args[0], logger)
	if err != nil {
		return err
	}

	rm, err := runmodel.Compile(m, cfg.Options())
	if err != nil {
		return err
	}
	for _, warning := range rm.CheckPlausibility() {
		logger.Warn(warning)
	}

	plan := formatter.NewPlan(rm)
	plan.Fingerprint = fmt.Sprintf("%016x", models.Fingerprint(m))
	out, err := formatter.Format(plan, cfg.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	logger.WithFields(log.Fields{
		"agents":      rm.TotalAgents(),
		"shifts":      rm.ShiftCount(),
		"simDays":     rm.SimDays(),
		"threads":     runmodel.ThreadCount(cfg.MaxThreads),
		"fingerprint": plan.Fingerprint,
	}).Info("shift plan created")
	return nil
}

func runShifts(cmd *cobra.Command, args []string) error {
	logger := runLogger(cmd, args[0])
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	curve, err := parser.ParseCurve(file)
	if err != nil {
		return fmt.Errorf("error parsing file: %w", err)
	}

	n := len(curve)
	shifts := scheduler.Synthesize(curve,
		scheduler.ScaleShiftLength(preferredFlag, n),
		scheduler.ScaleShiftLength(minimumFlag, n),
		openEndFlag)
	metrics.ShiftsPlanned.Set(float64(len(shifts)))

	out, err := formatter.Format(formatter.PlanFromShifts("curve", shifts), cfg.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	logger.WithFields(log.Fields{
		"intervals":    n,
		"shifts":       len(shifts),
		"agentSeconds": scheduler.TotalAgentSeconds(shifts),
	}).Info("shifts synthesized")
	return nil
}
