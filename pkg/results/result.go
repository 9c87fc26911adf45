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

package results

import (
	"github.com/pborman/uuid"

	"github.com/khomkrity/task-scheduling-simulator/pkg/cost"
	"github.com/khomkrity/task-scheduling-simulator/pkg/processor"
	"github.com/khomkrity/task-scheduling-simulator/pkg/rank"
	"github.com/khomkrity/task-scheduling-simulator/pkg/task"
	"github.com/khomkrity/task-scheduling-simulator/pkg/workflow"
)

// TaskResult is the committed timeline of one task.
type TaskResult struct {
	TaskID              int     `json:"taskId"`
	AssignedProcessor   string  `json:"assignedProcessor"`
	Depth               int     `json:"depth"`
	ParentIDs           []int   `json:"parentIds"`
	ChildIDs            []int   `json:"childIds"`
	ReadyTime           float64 `json:"readyTime"`
	StartTime           float64 `json:"startTime"`
	FinishTime          float64 `json:"finishTime"`
	SendingLatency      float64 `json:"sendingLatency"`
	ReceivingLatency    float64 `json:"receivingLatency"`
	StartSendingTime    float64 `json:"startSendingTime"`
	FinishSendingTime   float64 `json:"finishSendingTime"`
	StartReceivingTime  float64 `json:"startReceivingTime"`
	FinishReceivingTime float64 `json:"finishReceivingTime"`
}

// ProcessorResult is one processor's share of the schedule.
type ProcessorResult struct {
	Name                string  `json:"name"`
	MIPS                float64 `json:"mips"`
	Bandwidth           float64 `json:"bandwidth"`
	ResourceUtilization float64 `json:"resourceUtilization"`
}

// SchedulingResult is the exported outcome of one (workflow, processor set,
// algorithm) simulation: the headline metrics, the workflow's structural
// statistics and rank distributions, and the per-task and per-processor
// details.
type SchedulingResult struct {
	ID            string `json:"id"`
	WorkflowName  string `json:"workflowName"`
	AlgorithmName string `json:"algorithmName"`

	NumberOfTask      int `json:"numberOfTask"`
	NumberOfProcessor int `json:"numberOfProcessor"`

	Makespan            float64 `json:"makespan"`
	Speedup             float64 `json:"speedup"`
	Efficiency          float64 `json:"efficiency"`
	ScheduleLengthRatio float64 `json:"scheduleLengthRatio"`
	Throughput          float64 `json:"throughput"`

	NumberOfEntry                   int     `json:"numberOfEntry"`
	NumberOfExit                    int     `json:"numberOfExit"`
	AddedPseudoEntry                bool    `json:"addedPseudoEntry"`
	AddedPseudoExit                 bool    `json:"addedPseudoExit"`
	Width                           int     `json:"width"`
	Height                          int     `json:"height"`
	Density                         float64 `json:"density"`
	NumberOfEdge                    int     `json:"numberOfEdge"`
	AverageTaskDegree               float64 `json:"averageTaskDegree"`
	MaxInDegree                     int     `json:"maxInDegree"`
	MaxOutDegree                    int     `json:"maxOutDegree"`
	MaxSibling                      int     `json:"maxSibling"`
	TotalLength                     float64 `json:"totalLength"`
	TotalComputationCost            float64 `json:"totalComputationCost"`
	TotalCommunicationCost          float64 `json:"totalCommunicationCost"`
	CommunicationToComputationRatio float64 `json:"communicationToComputationRatio"`
	CriticalPathCost                float64 `json:"criticalPathCost"`
	NumberOfCriticalTask            int     `json:"numberOfCriticalTask"`

	UpwardRanks              []float64 `json:"upwardRanks"`
	DownwardRanks            []float64 `json:"downwardRanks"`
	OptimisticCosts          []float64 `json:"optimisticCosts"`
	PessimisticCosts         []float64 `json:"pessimisticCosts"`
	HeterogeneousUpwardRanks []float64 `json:"heterogeneousUpwardRanks"`
	PredictCosts             []float64 `json:"predictCosts"`
	PredictRanks             []float64 `json:"predictRanks"`

	TaskResults      []TaskResult      `json:"taskResults"`
	ProcessorResults []ProcessorResult `json:"processorResults"`
}

// New builds the result of one committed schedule. The schedule-length ratio
// is computed over the critical-path tasks; everything else over the whole
// workflow.
func New(
	workflowName, algorithmName string,
	tasks []*task.Task,
	processors []*processor.Processor,
	ranks *rank.Tables,
	calc *cost.Calculator,
) (*SchedulingResult, error) {
	makespan, err := Makespan(tasks)
	if err != nil {
		return nil, err
	}
	speedup, err := Speedup(tasks, processors, makespan)
	if err != nil {
		return nil, err
	}
	efficiency, err := Efficiency(processors, speedup)
	if err != nil {
		return nil, err
	}
	ccr, err := calc.CommunicationToComputationRatio(tasks, processors)
	if err != nil {
		return nil, err
	}

	criticalTasks := workflow.CriticalPath(tasks, ranks)
	criticalPathCost := cost.SumMedianComputationCost(criticalTasks, processors)
	medianBandwidth := cost.Median(cost.Bandwidths(processors))
	for i := 0; i+1 < len(criticalTasks); i++ {
		criticalPathCost += calc.CommunicationAt(criticalTasks[i], criticalTasks[i+1], medianBandwidth)
	}

	roots := workflow.Roots(tasks)
	exits := workflow.Exits(tasks)
	result := &SchedulingResult{
		ID:                  uuid.New(),
		WorkflowName:        workflowName,
		AlgorithmName:       algorithmName,
		NumberOfTask:        len(tasks),
		NumberOfProcessor:   len(processors),
		Makespan:            makespan,
		Speedup:             speedup,
		Efficiency:          efficiency,
		ScheduleLengthRatio: ScheduleLengthRatio(criticalTasks, processors, makespan),
		Throughput:          Throughput(float64(len(tasks)), makespan),

		NumberOfEntry:                   len(roots[0].Children),
		NumberOfExit:                    len(exits[0].Parents),
		AddedPseudoEntry:                roots[0].Length == 0,
		AddedPseudoExit:                 exits[0].Length == 0,
		Width:                           workflow.Width(tasks),
		Height:                          workflow.Height(tasks),
		Density:                         workflow.Density(tasks),
		NumberOfEdge:                    workflow.TotalEdges(tasks),
		AverageTaskDegree:               workflow.AverageTaskDegree(tasks),
		TotalComputationCost:            cost.SumMedianComputationCost(tasks, processors),
		TotalCommunicationCost:          calc.SumAverageCommunicationCost(tasks, processors),
		CommunicationToComputationRatio: ccr,
		CriticalPathCost:                criticalPathCost,
		NumberOfCriticalTask:            len(criticalTasks),
	}

	totalRunningTime := TotalRunningTime(processors)
	for _, t := range tasks {
		if siblings := len(t.Siblings()); siblings > result.MaxSibling {
			result.MaxSibling = siblings
		}
		if in := len(t.Parents); in > result.MaxInDegree {
			result.MaxInDegree = in
		}
		if out := len(t.Children); out > result.MaxOutDegree {
			result.MaxOutDegree = out
		}
		result.TotalLength += t.Length

		result.UpwardRanks = append(result.UpwardRanks, ranks.Upward(t))
		result.DownwardRanks = append(result.DownwardRanks, ranks.Downward(t))
		result.OptimisticCosts = append(result.OptimisticCosts, ranks.MeanOptimisticRow(t))
		result.PessimisticCosts = append(result.PessimisticCosts, ranks.MeanPessimisticRow(t))
		result.HeterogeneousUpwardRanks = append(result.HeterogeneousUpwardRanks,
			ranks.MeanUpwardRow(t)*float64(len(t.Children)))
		result.PredictCosts = append(result.PredictCosts, ranks.MeanPredictRow(t))
		result.PredictRanks = append(result.PredictRanks,
			ranks.MeanPredictRow(t)*float64(len(t.Children)))

		result.TaskResults = append(result.TaskResults, newTaskResult(t))
	}
	for _, p := range processors {
		result.ProcessorResults = append(result.ProcessorResults, ProcessorResult{
			Name:                p.Name,
			MIPS:                p.MIPS,
			Bandwidth:           p.Bandwidth,
			ResourceUtilization: ResourceUtilization(p, totalRunningTime),
		})
	}

	return result, nil
}

func newTaskResult(t *task.Task) TaskResult {
	parentIDs := make([]int, 0, len(t.Parents))
	for _, parent := range t.Parents {
		parentIDs = append(parentIDs, parent.ID)
	}
	childIDs := make([]int, 0, len(t.Children))
	for _, child := range t.Children {
		childIDs = append(childIDs, child.ID)
	}
	return TaskResult{
		TaskID:              t.ID,
		AssignedProcessor:   t.AssignedProcessor.Name,
		Depth:               t.Depth,
		ParentIDs:           parentIDs,
		ChildIDs:            childIDs,
		ReadyTime:           t.ReadyTime,
		StartTime:           t.StartTime,
		FinishTime:          t.FinishTime,
		SendingLatency:      t.SendingLatency,
		ReceivingLatency:    t.ReceivingLatency,
		StartSendingTime:    t.StartSendingTime,
		FinishSendingTime:   t.FinishSendingTime,
		StartReceivingTime:  t.StartReceivingTime,
		FinishReceivingTime: t.FinishReceivingTime,
	}
}
