package main

import (
	"cmp"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/limaJavier/lessonplanner/pkg/config"
	"github.com/limaJavier/lessonplanner/pkg/logger"
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	exitFeasible     = 10
	exitVerifyFailed = 15
	exitInfeasible   = 20
)

var validAcceptors = []string{string(solver.HillClimbing), string(solver.SimulatedAnnealing), string(solver.LateAcceptance)}

type entry struct {
	Lesson    uint64 `json:"lesson"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher"`
	Room      string `json:"room"`
}

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	configPathPtr := flag.String("config", "", "Path to an optional configuration file (yaml, json or toml); TIMETABLE_* environment variables override it")
	acceptorPtr := flag.String("acceptor", string(solver.SimulatedAnnealing), "Local search acceptor. Allowed values are: \"hill-climbing\", \"simulated-annealing\" and \"late-acceptance\", where \"simulated-annealing\" is the default")
	seedPtr := flag.Int64("seed", 0, "Random seed")
	timeLimitPtr := flag.Int64("time-limit", 0, "Time limit in milliseconds")
	unimprovedPtr := flag.Int64("unimproved", 0, "Maximum number of iterations without improving the best score")
	iterationsPtr := flag.Int64("iterations", 0, "Maximum number of local search iterations (0 means unlimited)")
	workersPtr := flag.Int("workers", 1, "Number of parallel local search workers")
	logLevelPtr := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	metricsPtr := flag.Bool("metrics", false, "Print solver metrics in Prometheus text format to the Standard Error")
	flag.Parse()

	// Load configuration and apply explicitly set flags on top of it
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "acceptor":
			cfg.Solver.Acceptor = solver.AcceptorType(strings.ToLower(*acceptorPtr))
		case "seed":
			cfg.Solver.RandomSeed = *seedPtr
		case "time-limit":
			cfg.Solver.TimeLimitMillis = *timeLimitPtr
		case "unimproved":
			cfg.Solver.MaxUnimprovedIterations = *unimprovedPtr
		case "iterations":
			cfg.Solver.MaxIterations = *iterationsPtr
		case "workers":
			cfg.Solver.Workers = *workersPtr
		case "log-level":
			cfg.Log.Level = *logLevelPtr
		}
	})
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(validAcceptors, string(cfg.Solver.Acceptor)) {
		log.Fatalf("%v is not a valid acceptor", cfg.Solver.Acceptor)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	zapLogger, err := logger.New(cfg.Env, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Extract input
	input, err := model.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	problem, err := model.NewProblem(input)
	if err != nil {
		log.Fatalf("invalid input file: %v", err)
	}

	// Initialize engine
	registry := prometheus.NewRegistry()
	engine, err := solver.New(cfg.Solver, solver.WithLogger(zapLogger), solver.WithMetrics(solver.NewMetrics(registry)))
	if err != nil {
		log.Fatalf("cannot create solver: %v", err)
	}

	// Build timetable; an interrupt stops the search and keeps the best timetable found so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	result, err := engine.Solve(ctx, problem)
	stop()
	if err != nil {
		log.Fatalf("an error occurred during timetable construction: %v", err)
	}

	if *metricsPtr {
		dumpMetrics(registry)
	}

	// Build output from timetable
	output := map[string]any{
		"run":         result.RunId.String(),
		"score":       result.Score.String(),
		"feasible":    result.Feasible(),
		"termination": result.Termination,
		"iterations":  result.Iterations,
		"timetable":   perGroupTimetable(result.Solution),
		"explanation": result.Explanation,
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else {
		err := os.WriteFile(outFile, outputJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	code := exitFeasible
	switch {
	case !result.Feasible():
		code = exitInfeasible
	case !model.Verify(result.Solution):
		// The scorer and the verifier disagree
		zapLogger.Error("feasible timetable failed verification", zap.String("run", result.RunId.String()))
		code = exitVerifyFailed
	}
	_ = zapLogger.Sync()
	os.Exit(code)
}

// perGroupTimetable lists every group's lessons sorted by time slot.
func perGroupTimetable(solution *model.Solution) map[string][]entry {
	problem := solution.Problem
	assigned := lo.Filter(solution.Lessons, func(lesson model.Lesson, _ int) bool { return lesson.Assigned() })
	slices.SortFunc(assigned, func(a, b model.Lesson) int {
		return cmp.Or(cmp.Compare(a.TimeSlot.Id, b.TimeSlot.Id), cmp.Compare(a.Id, b.Id))
	})

	timetable := make(map[string][]entry)
	for _, lesson := range assigned {
		group, _ := problem.StudentGroup(lesson.StudentGroup)
		subject, _ := problem.Subject(lesson.Subject)
		teacher, _ := problem.Teacher(lesson.Teacher)

		timetable[group.Name] = append(timetable[group.Name], entry{
			Lesson:    lesson.Id,
			Day:       lesson.TimeSlot.DayOfWeek,
			StartTime: lesson.TimeSlot.StartTime,
			EndTime:   lesson.TimeSlot.EndTime,
			Subject:   subject.Name,
			Teacher:   teacher.Name,
			Room:      lesson.Room.Name,
		})
	}
	return timetable
}

func dumpMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Printf("cannot gather metrics: %v", err)
		return
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, family); err != nil {
			log.Printf("cannot write metrics: %v", err)
			return
		}
	}
}
