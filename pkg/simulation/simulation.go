// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package simulation drives the sweep: every workflow against every
// processor scenario against every scheduling policy.
package simulation

import (
	multierror "github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/khomkrity/task-scheduling-simulator/pkg/config"
	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/environment"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
	"github.com/khomkrity/task-scheduling-simulator/pkg/results"
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler"
	"github.com/khomkrity/task-scheduling-simulator/pkg/scheduler/algorithm"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
	"github.com/khomkrity/task-scheduling-simulator/pkg/workflow"
)

// Simulation sweeps workflows, scenarios and policies and collects one
// SchedulingResult per combination.
type Simulation struct {
	cfg     *config.SimulationConfig
	setting *environment.Setting
	metrics *Metrics
}

// New creates a simulation over the given configuration and environment.
func New(cfg *config.SimulationConfig, setting *environment.Setting, scope tally.Scope) *Simulation {
	return &Simulation{
		cfg:     cfg,
		setting: setting,
		metrics: NewMetrics(scope),
	}
}

// algorithmNames resolves the configured policy names, falling back to the
// default seven-policy sweep.
func (s *Simulation) algorithmNames() []algorithm.Name {
	if len(s.cfg.Algorithms) == 0 {
		return algorithm.DefaultNames
	}
	names := make([]algorithm.Name, 0, len(s.cfg.Algorithms))
	for _, name := range s.cfg.Algorithms {
		names = append(names, algorithm.Name(name))
	}
	return names
}

// Run executes the whole sweep. A workflow that fails to parse or schedule
// aborts only its own simulations; the failures are aggregated into the
// returned error alongside the results that did complete.
func (s *Simulation) Run() ([]*results.SchedulingResult, error) {
	paths, err := workflow.List(s.cfg.WorkflowDirectoryPath)
	if err != nil {
		return nil, err
	}

	var schedulingResults []*results.SchedulingResult
	var failures error
	for _, path := range paths {
		workflowResults, err := s.runWorkflow(path)
		if err != nil {
			s.metrics.SimulationFail.Inc(1)
			failures = multierror.Append(failures, err)
			continue
		}
		schedulingResults = append(schedulingResults, workflowResults...)
	}
	return schedulingResults, failures
}

func (s *Simulation) runWorkflow(path string) ([]*results.SchedulingResult, error) {
	workflowName := workflow.Name(path)
	tasks, err := workflow.Parse(path, s.setting.PortConstraint, s.setting.PseudoTask)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"workflow": workflowName,
		"tasks":    len(tasks),
	}).Info("parsed workflow")

	var workflowResults []*results.SchedulingResult
	for _, processors := range s.setting.Scenarios {
		calc := cost.NewCalculator()
		ranks := rank.NewTables(calc)
		ranks.Compute(tasks, processors)

		for _, name := range s.algorithmNames() {
			result, err := s.runAlgorithm(name, workflowName, tasks, processors, ranks, calc)
			reset(tasks, processors)
			if err != nil {
				return nil, err
			}
			workflowResults = append(workflowResults, result)
		}
		// Bandwidths change with the scenario; the memoised communication
		// costs must not leak across.
		calc.Reset()
	}
	return workflowResults, nil
}

func (s *Simulation) runAlgorithm(
	name algorithm.Name,
	workflowName string,
	tasks []*task.Task,
	processors []*processor.Processor,
	ranks *rank.Tables,
	calc *cost.Calculator,
) (*results.SchedulingResult, error) {
	algo, err := algorithm.New(name, ranks, calc)
	if err != nil {
		return nil, err
	}

	stopwatch := s.metrics.ScheduleDuration.Start()
	scheduledTasks := algo.Run(tasks, processors)
	if err := scheduler.Commit(calc, scheduledTasks, s.setting.PortConstraint); err != nil {
		return nil, err
	}
	stopwatch.Stop()

	result, err := results.New(workflowName, algo.String(), scheduledTasks, processors, ranks, calc)
	if err != nil {
		return nil, err
	}
	s.metrics.SimulationSuccess.Inc(1)
	s.metrics.Makespan.Update(result.Makespan)
	logSchedule(result)
	return result, nil
}

// logSchedule dumps the committed schedule at debug level, one line per task.
func logSchedule(result *results.SchedulingResult) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	for _, taskResult := range result.TaskResults {
		log.WithFields(log.Fields{
			"workflow":  result.WorkflowName,
			"algorithm": result.AlgorithmName,
			"task":      taskResult.TaskID,
			"processor": taskResult.AssignedProcessor,
			"start":     taskResult.StartTime,
			"finish":    taskResult.FinishTime,
		}).Debug("committed task")
	}
}

// reset clears the per-run state of tasks and processors so the next policy
// starts from a clean slate.
func reset(tasks []*task.Task, processors []*processor.Processor) {
	for _, t := range tasks {
		t.Reset()
	}
	for _, p := range processors {
		p.Reset()
	}
}
