package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/limaJavier/lessonplanner/pkg/logger"
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/solver"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type InstanceMetadata struct {
	Name string
	Size model.Size
}

type BenchmarkResult struct {
	Acceptor     solver.AcceptorType
	Instance     InstanceMetadata
	Seed         int64
	Lessons      int
	Duration     int64
	Iterations   int64
	Improvements int
	Hard         int64
	Soft         int64
	Feasible     bool
	Termination  solver.TerminationReason
}

func main() {
	budgetPtr := flag.String("budget", "0:05.00", "Time budget per run, formatted as \"h:mm:ss.cc\" or \"m:ss.cc\"")
	seedsPtr := flag.Int("seeds", 3, "Number of seeds per instance and acceptor")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file")
	verbosePtr := flag.Bool("verbose", false, "Log solver progress")
	flag.Parse()

	budget := parseDuration(*budgetPtr)
	zapLogger := zap.NewNop()
	if *verbosePtr {
		zapLogger = lo.Must(logger.New(logger.EnvDevelopment, "info", "console"))
	}

	instances := getInstances()
	acceptors := getAcceptors()
	results := make([]BenchmarkResult, 0, len(instances)*len(acceptors)**seedsPtr)

	for i, instance := range instances {
		problem, err := model.NewProblem(model.RandomInput(rand.New(rand.NewPCG(uint64(i), 7)), instance.Size))
		if err != nil {
			log.Fatalf("cannot build instance \"%v\": %v", instance.Name, err)
		}

		for _, acceptor := range acceptors {
			for seed := range int64(*seedsPtr) {
				fmt.Printf("Benchmarking instance \"%v\" with acceptor \"%v\" and seed \"%v\"\n", instance.Name, acceptor, seed)
				results = append(results, measure(problem, instance, acceptor, seed, budget, zapLogger))
			}
		}
	}

	toCsv(*outPtr, results)
	summarize(results)
}

func getInstances() []InstanceMetadata {
	return []InstanceMetadata{
		{
			Name: "small",
			Size: model.Size{Days: 5, Periods: 4, Rooms: 3, Subjects: 5, Teachers: 4, Groups: 2, MaxWeeklyHours: 4},
		},

		{
			Name: "medium",
			Size: model.Size{Days: 5, Periods: 6, Rooms: 6, Subjects: 8, Teachers: 7, Groups: 5, MaxWeeklyHours: 4},
		},

		{
			Name: "large",
			Size: model.Size{Days: 5, Periods: 8, Rooms: 10, Subjects: 10, Teachers: 12, Groups: 10, MaxWeeklyHours: 4},
		},
	}
}

func getAcceptors() []solver.AcceptorType {
	return []solver.AcceptorType{solver.HillClimbing, solver.SimulatedAnnealing, solver.LateAcceptance}
}

func measure(problem *model.Problem, instance InstanceMetadata, acceptor solver.AcceptorType, seed int64, budget int64, zapLogger *zap.Logger) BenchmarkResult {
	cfg := solver.DefaultConfig()
	cfg.Acceptor = acceptor
	cfg.RandomSeed = seed
	cfg.TimeLimitMillis = budget

	engine, err := solver.New(cfg, solver.WithLogger(zapLogger))
	if err != nil {
		log.Fatalf("cannot create solver: %v", err)
	}
	result, err := engine.Solve(context.Background(), problem)
	if err != nil {
		log.Fatalf("an error occurred while solving instance \"%v\" using acceptor \"%v\": %v\n", instance.Name, acceptor, err)
	}
	if result.Feasible() && !model.Verify(result.Solution) {
		log.Fatalf("feasible timetable of instance \"%v\" using acceptor \"%v\" failed verification", instance.Name, acceptor)
	}

	return BenchmarkResult{
		Acceptor:     acceptor,
		Instance:     instance,
		Seed:         seed,
		Lessons:      len(problem.Lessons),
		Duration:     result.Duration.Milliseconds(),
		Iterations:   result.Iterations,
		Improvements: len(result.Improvements),
		Hard:         result.Score.Hard,
		Soft:         result.Score.Soft,
		Feasible:     result.Feasible(),
		Termination:  result.Termination,
	}
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Acceptor", "Instance", "Seed", "Days", "Periods", "Rooms", "Teachers", "Groups", "Lessons", "Duration(ms)", "Iterations", "Improvements", "Hard", "Soft", "Feasible", "Termination"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			string(result.Acceptor),
			result.Instance.Name,
			fmt.Sprintf("%d", result.Seed),
			fmt.Sprintf("%d", result.Instance.Size.Days),
			fmt.Sprintf("%d", result.Instance.Size.Periods),
			fmt.Sprintf("%d", result.Instance.Size.Rooms),
			fmt.Sprintf("%d", result.Instance.Size.Teachers),
			fmt.Sprintf("%d", result.Instance.Size.Groups),
			fmt.Sprintf("%d", result.Lessons),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Improvements),
			fmt.Sprintf("%d", result.Hard),
			fmt.Sprintf("%d", result.Soft),
			fmt.Sprintf("%v", result.Feasible),
			string(result.Termination),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func summarize(results []BenchmarkResult) {
	byAcceptor := lo.GroupBy(results, func(result BenchmarkResult) solver.AcceptorType { return result.Acceptor })
	for _, acceptor := range getAcceptors() {
		runs := byAcceptor[acceptor]
		if len(runs) == 0 {
			continue
		}
		feasible := lo.CountBy(runs, func(result BenchmarkResult) bool { return result.Feasible })
		meanSoft := float64(lo.SumBy(runs, func(result BenchmarkResult) int64 { return result.Soft })) / float64(len(runs))
		meanIterations := float64(lo.SumBy(runs, func(result BenchmarkResult) int64 { return result.Iterations })) / float64(len(runs))
		fmt.Printf("%-20v feasible %d/%d, mean soft %.1f, mean iterations %.0f\n", acceptor, feasible, len(runs), meanSoft, meanIterations)
	}
}

// parseDuration converts "h:mm:ss.cc" or "m:ss.cc" into milliseconds.
func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")
	if len(secondsParts) != 2 {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	seconds := lo.Must(strconv.Atoi(secondsParts[0]))
	hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))

	var minutes, hours int
	switch len(parts) {
	case 3: // h:mm:ss
		hours = lo.Must(strconv.Atoi(parts[0]))
		minutes = lo.Must(strconv.Atoi(parts[1]))
	case 2: // m:ss
		minutes = lo.Must(strconv.Atoi(parts[0]))
	default:
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
}
