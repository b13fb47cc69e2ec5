package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"testrules/internal/combine"
	"testrules/internal/config"
	"testrules/internal/coverage"
	"testrules/internal/discovery"
	"testrules/internal/exec"
	"testrules/internal/inspect"
	"testrules/internal/lint"
	"testrules/internal/obslog"
	"testrules/internal/report"
	"testrules/internal/testcase"
)

const configFileName = "testrules.json"

// action enumerates the verbs parseArguments can resolve args into,
// mirroring the original tool's parse_arguments action strings.
type action string

const (
	actionHelp action = "help"
	actionLint action = "lint"
	actionCheck action = "check"
	actionTest action = "test"
)

// plan is the resolved form of a command line, the Go-native shape of
// parse_arguments's returned dict.
type plan struct {
	action      action
	testType    string
	modules     []string
	group       string
	description string
}

// parseArguments implements spec.md §6's exact positional-token table:
// no args → all tests; help/--help/-h; lint; check; a registered test
// type name; a registered group name; one token → single module;
// ≥2 tokens → module list.
func parseArguments(args []string, cfg *config.Config) plan {
	if len(args) == 0 {
		return plan{action: actionTest, description: "all tests"}
	}

	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		return plan{action: actionHelp, description: "help"}
	}

	if len(args) == 1 {
		switch command := args[0]; {
		case command == "lint":
			return plan{action: actionLint, description: "linting only"}
		case command == "check":
			return plan{action: actionCheck, description: "comprehensive check (linting + all tests)"}
		case isTestType(cfg, command):
			return plan{action: actionTest, testType: command, description: fmt.Sprintf("%s tests", command)}
		case isGroup(cfg, command):
			return plan{action: actionTest, group: command, description: fmt.Sprintf("test group '%s'", command)}
		default:
			return plan{action: actionTest, modules: args, description: fmt.Sprintf("module '%s'", command)}
		}
	}

	return plan{action: actionTest, modules: args, description: fmt.Sprintf("%d modules", len(args))}
}

func isTestType(cfg *config.Config, name string) bool {
	_, ok := cfg.TestPatterns[name]
	return ok
}

func isGroup(cfg *config.Config, name string) bool {
	_, ok := cfg.TestGroups[name]
	return ok
}

// run is the Go-native form of main(): it loads config, resolves the
// command plan, and dispatches to lint/check/test, returning the process
// exit code.
func run(ctx context.Context, args []string) (int, error) {
	searchPath := workspace
	if searchPath == "" {
		searchPath = "."
	}

	cfg, warnings := config.Load(filepath.Join(searchPath, configFileName))
	for _, w := range warnings {
		logger.Sugar().Warn(w.Message)
	}

	sink := obslog.NewSink(obslog.Options{
		DebugMode:  cfg.DebugMode,
		Categories: cfg.Categories,
		Level:      cfg.LogLevel,
		LogDir:     filepath.Join(searchPath, ".testrules", "logs"),
	})
	defer sink.Close()
	logger.Sugar().Debugf("run %s starting in %s", sink.RunID(), searchPath)

	p := parseArguments(args, cfg)

	switch p.action {
	case actionHelp:
		printHelp()
		return 0, nil
	case actionLint:
		result := lint.Run(ctx, searchPath)
		report.Lint(os.Stdout, result)
		// A backend error reports as violation_count == -1 in the original,
		// and -1 > 0 is false, so a lint backend error exits 0 here too --
		// preserved verbatim rather than "fixed", see SPEC_FULL.md §9.
		return combine.ExitCode(false, false, !result.Failed && result.Count() > 0), nil
	case actionCheck:
		lintResult := lint.Run(ctx, searchPath)
		report.Lint(os.Stdout, lintResult)
		testResult, err := runTests(ctx, p, cfg, sink, searchPath)
		if err != nil {
			return 1, err
		}
		lintFailed := lintResult.Count() > 0
		fmt.Println()
		fmt.Println(combine.Message(testResult.Failed > 0, testResult.Errors > 0, lintFailed))
		return combine.ExitCode(testResult.Failed > 0, testResult.Errors > 0, lintFailed), nil
	default:
		testResult, err := runTests(ctx, p, cfg, sink, searchPath)
		if err != nil {
			return 1, err
		}
		fmt.Println()
		fmt.Println(combine.Message(testResult.Failed > 0, testResult.Errors > 0, false))
		return combine.ExitCode(testResult.Failed > 0, testResult.Errors > 0, false), nil
	}
}

// runTests discovers, inspects, and executes the tests p selects, then
// renders the summary/detailed/timing/coverage reports.
func runTests(ctx context.Context, p plan, cfg *config.Config, sink *obslog.Sink, searchPath string) (*testcase.Result, error) {
	fmt.Printf("Command: %s\n", p.description)

	files, warnings := discovery.Discover(discovery.Options{
		Modules:  p.modules,
		Group:    p.group,
		TestType: p.testType,
	}, cfg, searchPath)
	for _, w := range warnings {
		sink.Get(obslog.CategoryDiscovery).Warn(w.Message)
	}

	ins := inspect.New()
	defer ins.Close()

	var methods []testcase.Method
	for _, f := range files {
		module := inspect.ModuleNameFromPath(f)
		found, diag := ins.Inspect(module, f)
		if diag != nil {
			sink.Get(obslog.CategoryInspect).Warn(diag.Message)
			continue
		}
		methods = append(methods, found...)
	}

	// methods stays in discovery order (files sorted, then per-file
	// inspector order): spec.md §4.4 forbids an alphabetic re-sort here.
	runner := exec.NewRunner(sink.Get(obslog.CategoryExec))
	result := runner.RunAll(ctx, methods)

	report.Summary(os.Stdout, result)
	report.Detailed(os.Stdout, result)
	report.TimingBreakdown(os.Stdout, result, 5)

	if cfg.CoverageEnabled {
		reportCoverage(ctx, cfg, searchPath, sink)
	}

	return result, nil
}

// reportCoverage collects and renders coverage. A failure here is
// logged, never propagated: coverage is always optional per spec.md.
func reportCoverage(ctx context.Context, cfg *config.Config, searchPath string, sink *obslog.Sink) {
	handle, err := coverage.Start(ctx, "./...", filepath.Join(searchPath, ".testrules"))
	if err != nil {
		sink.Get(obslog.CategoryCoverage).Warn("coverage collection unavailable: %v", err)
		return
	}
	defer handle.Stop()

	summary, err := handle.Report()
	if err != nil {
		sink.Get(obslog.CategoryCoverage).Warn("coverage report unavailable: %v", err)
		return
	}
	report.Coverage(os.Stdout, summary)

	if cfg.HTMLCoverage {
		dir := cfg.HTMLCoverageDir
		if dir == "" {
			dir = "htmlcov"
		}
		index, err := handle.HTMLReport(ctx, filepath.Join(searchPath, dir))
		if err != nil {
			sink.Get(obslog.CategoryCoverage).Warn("HTML coverage report failed: %v", err)
			return
		}
		if abs, absErr := filepath.Abs(index); absErr == nil {
			index = abs
		}
		fmt.Printf("HTML coverage report: %s\n", index)
	}
}

func printHelp() {
	fmt.Println(`testrules [group|test_module1 test_module2 ...|lint|check|unit|integration|e2e|regression]

  (no arguments)         run every discovered test
  unit|integration|e2e|regression
                         run tests matching one configured test type
  <group>                run the modules listed under a configured test group
  <module> [modules...]  run one or more specific modules by name
  lint                   run style checks only
  check                  run style checks, then every test
  help, --help, -h       show this message`)
}
