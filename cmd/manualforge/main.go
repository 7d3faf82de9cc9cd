// cmd/manualforge/main.go
//
// Entry point for the manualforge CLI. It turns a YAML (or Go-scripted)
// game definition into a distributable .apworld plugin archive:
//
// 1. Load and validate the definition
// 2. Derive the items/locations/regions/hooks artifacts
// 3. Fetch (or reuse) the base Manual archive
// 4. Overlay the artifacts and write the final archive

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/manualforge/internal/archive"
	"github.com/kingrea/manualforge/internal/artifacts"
	"github.com/kingrea/manualforge/internal/config"
	"github.com/kingrea/manualforge/internal/definition"
	"github.com/kingrea/manualforge/internal/fetch"
	"github.com/kingrea/manualforge/internal/logging"
	"github.com/kingrea/manualforge/internal/tui"
)

var stepLabels = []string{
	"Validate definition",
	"Derive artifacts",
	"Fetch base archive",
	"Assemble archive",
}

const (
	stepValidate = iota
	stepDerive
	stepFetch
	stepAssemble
)

func main() {
	output := flag.String("o", "", "output archive path (single-definition inputs only)")
	outputDir := flag.String("output-dir", "", "directory for output archives (defaults to cwd)")
	validateOnly := flag.Bool("validate-only", false, "validate the definition and exit without building")
	forceDownload := flag.Bool("force-download", false, "re-download the base archive even when cached")
	plain := flag.Bool("plain", false, "print progress lines instead of the interactive view")
	flag.Parse()

	if flag.NArg() != 1 {
		die("usage: manualforge [flags] <definition.yaml|definition.go>")
	}
	input := flag.Arg(0)
	ext := strings.ToLower(filepath.Ext(input))
	if ext != ".yaml" && ext != ".yml" && ext != ".go" {
		fmt.Fprintf(os.Stderr, "Warning: %s does not have a .yaml, .yml or .go extension\n", input)
	}

	if *validateOnly {
		if err := runValidateOnly(input); err != nil {
			die("%v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		die("%v", err)
	}
	if err := cfg.EnsureCacheDir(); err != nil {
		die("%v", err)
	}
	logger, err := logging.New(cfg.LogsDir())
	if err != nil {
		die("%v", err)
	}
	defer logger.Close()

	opts := buildOptions{
		input:     input,
		output:    *output,
		outputDir: *outputDir,
		force:     *forceDownload,
	}
	if *plain {
		if err := runPlain(cfg, logger, opts); err != nil {
			logger.Printf("build failed: %v", err)
			die("%v", err)
		}
		return
	}
	if err := runTUI(cfg, logger, opts); err != nil {
		logger.Printf("build failed: %v", err)
		die("%v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// runValidateOnly loads the definition and prints a short summary, leaving
// the cache directory untouched.
func runValidateOnly(input string) error {
	files, err := definition.Load(input)
	if err != nil {
		return err
	}
	for _, file := range files {
		for _, warning := range file.Warnings {
			fmt.Printf("Warning: %s\n", warning)
		}
		def := file.Definition
		fmt.Printf("%s: %d chapters, %d challenges, %d progression items\n",
			def.Name, len(def.Chapters), def.TotalChallenges(), len(def.ProgressionItems))
	}
	return nil
}

// buildOptions carries the resolved CLI flags for one build run.
type buildOptions struct {
	input     string
	output    string
	outputDir string
	force     bool
}

// reporter receives pipeline progress. The plain runner prints lines; the
// TUI runner forwards messages into the bubbletea program.
type reporter interface {
	stepStarted(index int)
	stepDone(index int, detail string)
	warn(message string)
}

// runPipeline executes the four build steps, reporting progress as it goes.
// It returns the paths of the created archives.
func runPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger, opts buildOptions, r reporter) ([]string, int, error) {
	// The base-archive fetch has no data dependency on validation or
	// derivation; start it immediately and join before assembly.
	type fetchResult struct {
		path string
		err  error
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fetchCh := make(chan fetchResult, 1)
	r.stepStarted(stepFetch)
	go func() {
		path, err := fetch.New(cfg, logger).Fetch(ctx, opts.force)
		fetchCh <- fetchResult{path: path, err: err}
	}()

	r.stepStarted(stepValidate)
	files, err := definition.Load(opts.input)
	if err != nil {
		return nil, stepValidate, err
	}
	for _, file := range files {
		for _, warning := range file.Warnings {
			r.warn(string(warning))
		}
	}
	if opts.output != "" && len(files) > 1 {
		return nil, stepValidate, fmt.Errorf("-o cannot be used with inputs declaring %d definitions", len(files))
	}
	r.stepDone(stepValidate, fmt.Sprintf("%d definition(s)", len(files)))
	logger.Printf("validated %s: %d definition(s)", opts.input, len(files))

	r.stepStarted(stepDerive)
	derived := make([][]artifacts.Artifact, len(files))
	for i, file := range files {
		generated, err := artifacts.Generate(file.Definition)
		if err != nil {
			return nil, stepDerive, err
		}
		derived[i] = generated
		logger.Printf("derived %d artifacts for %s", len(generated), file.Definition.Name)
	}
	r.stepDone(stepDerive, "")

	res := <-fetchCh
	if res.err != nil {
		return nil, stepFetch, res.err
	}
	basePath := res.path
	r.stepDone(stepFetch, filepath.Base(basePath))

	r.stepStarted(stepAssemble)
	outputs := make([]string, 0, len(files))
	for i, file := range files {
		outPath := opts.output
		if outPath == "" {
			outPath = filepath.Join(opts.outputDir, archive.SuggestedFilename(file.Definition))
		}
		if err := archive.Assemble(basePath, derived[i], outPath); err != nil {
			return nil, stepAssemble, err
		}
		logger.Printf("created %s", outPath)
		outputs = append(outputs, outPath)
	}
	r.stepDone(stepAssemble, strings.Join(outputs, ", "))
	return outputs, -1, nil
}

type plainReporter struct{}

func (plainReporter) stepStarted(index int) {
	fmt.Printf("%s...\n", stepLabels[index])
}

func (plainReporter) stepDone(index int, detail string) {
	if detail != "" {
		fmt.Printf("%s done (%s)\n", stepLabels[index], detail)
		return
	}
	fmt.Printf("%s done\n", stepLabels[index])
}

func (plainReporter) warn(message string) {
	fmt.Printf("Warning: %s\n", message)
}

func runPlain(cfg config.Config, logger *logging.Logger, opts buildOptions) error {
	outputs, _, err := runPipeline(context.Background(), cfg, logger, opts, plainReporter{})
	if err != nil {
		return err
	}
	for _, out := range outputs {
		fmt.Printf("Created %s\n", out)
	}
	return nil
}

// teaReporter forwards pipeline progress into the running bubbletea program.
type teaReporter struct {
	program *tea.Program
}

func (r teaReporter) stepStarted(index int) {
	r.program.Send(tui.StepStartedMsg{Index: index})
}

func (r teaReporter) stepDone(index int, detail string) {
	r.program.Send(tui.StepDoneMsg{Index: index, Detail: detail})
}

func (r teaReporter) warn(message string) {
	r.program.Send(tui.WarningMsg(message))
}

func runTUI(cfg config.Config, logger *logging.Logger, opts buildOptions) error {
	model := tui.NewBuild("manualforge — "+filepath.Base(opts.input), stepLabels)
	p := tea.NewProgram(model)
	go func() {
		outputs, failedStep, err := runPipeline(context.Background(), cfg, logger, opts, teaReporter{program: p})
		if err != nil {
			p.Send(tui.StepFailedMsg{Index: failedStep, Err: err})
			return
		}
		p.Send(tui.FinishedMsg{Output: strings.Join(outputs, ", ")})
	}()
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run progress view: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
