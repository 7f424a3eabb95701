package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/solar-simulator/internal/config"
	"github.com/iwvelando/solar-simulator/internal/server"
	"github.com/iwvelando/solar-simulator/internal/simulator"
	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/output"
	"github.com/iwvelando/solar-simulator/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var version = "dev"

func main() {
	var in inputFlags

	configLocation := flag.String("config", "", "path to configuration file (built-in defaults when empty)")
	flag.Float64Var(&in.bill, "bill", 0, "monthly electricity bill")
	flag.Var(&in.consumption, "consumption", "monthly consumption in kWh (derived from the bill when omitted)")
	flag.Var(&in.tariff, "tariff", "tariff per kWh (configured default when omitted)")
	flag.Var(&in.irradiation, "irradiation", "solar irradiation in kWh/m²/day (configured default when omitted)")
	flag.Var(&in.roofArea, "roof-area", "available roof area in m²")
	flag.StringVar(&in.tariffFlag, "flag", "", "tariff flag: green, yellow, red1, red2")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, json, csv, pdf, xlsx")
	outputFile := flag.String("output-file", "", "write the report to this file instead of stdout")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "start the HTTP API instead of running one simulation")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	maxBody := flag.String("max-body", "", "request body limit override for -serve (e.g. 128K)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	loggingConfig := conf.Logging
	var srvConf *server.Config
	if *serve {
		srvConf, err = server.LoadConfig(*serverConfigLocation)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
			os.Exit(1)
		}
		if err := applyBodyLimit(srvConf, *maxBody); err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-body\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		loggingConfig = mergeLogging(loggingConfig, srvConf.Logging)
	}

	logger, err := initializeLogger(loggingConfig, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid simulator configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	engine := simulator.NewEngine(logger, conf.Simulator)

	if *serve {
		if err := runServer(logger, engine, srvConf); err != nil {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if validation.IsBinaryFormat(outputFormat) && *outputFile == "" {
		logger.Fatal("binary output format requires -output-file",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
		)
	}

	input, err := in.input()
	if err != nil {
		logger.Fatal("invalid tariff flag",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report, err := simulate(engine, input, conf.Simulator.Currency)
	if err != nil {
		var validationErr *simulator.ValidationError
		if errors.As(err, &validationErr) {
			logger.Fatal("invalid simulation input",
				zap.String("op", "main"),
				zap.Strings("errors", validationErr.Messages()),
			)
		}
		logger.Fatal("failed to run simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := writeReport(*outputFile, outputFormat, report, output.ParseLanguage(conf.Output.Language)); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// simulate runs one simulation and assembles the report shown to the user.
func simulate(engine *simulator.Engine, in simulator.Input, currency string) (output.Report, error) {
	result, err := engine.Simulate(in)
	if err != nil {
		return output.Report{}, err
	}
	return output.Report{
		Result:          result,
		Recommendations: engine.Recommend(result),
		Scenarios:       engine.FinancingScenarios(result.SystemSpecs.EstimatedCost),
		Currency:        currency,
	}, nil
}

// applyBodyLimit overrides the configured request body limit when raw is set.
func applyBodyLimit(srvConf *server.Config, raw string) error {
	if raw == "" {
		return nil
	}
	size, err := server.ParseSize(raw)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("body limit must be positive, got %s", raw)
	}
	srvConf.SetBodySizeBytes(size)
	return nil
}

func writeReport(path, outputFormat string, report output.Report, lang language.Tag) error {
	if path == "" {
		return output.Write(os.Stdout, outputFormat, report, lang)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return writeAndClose(file, outputFormat, report, lang)
}

// writeAndClose renders the report into w and returns the close error.
func writeAndClose(w io.WriteCloser, outputFormat string, report output.Report, lang language.Tag) error {
	if err := output.Write(w, outputFormat, report, lang); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func runServer(logger *zap.Logger, engine *simulator.Engine, srvConf *server.Config) error {
	if !logger.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	httpSrv := &http.Server{
		Addr:              srvConf.Address,
		Handler:           server.NewHandler(logger, engine, srvConf, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("op", "main.runServer"),
			zap.String("address", srvConf.Address),
		)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown requested", zap.String("op", "main.runServer"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
