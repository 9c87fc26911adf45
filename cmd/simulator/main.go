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

package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/khomkrity/task-scheduling-simulator/pkg/common/metrics"
	"github.com/khomkrity/task-scheduling-simulator/pkg/config"
	"github.com/khomkrity/task-scheduling-simulator/pkg/environment"
	"github.com/khomkrity/task-scheduling-simulator/pkg/results"
	"github.com/khomkrity/task-scheduling-simulator/pkg/simulation"
)

const (
	_metricScope         = "task_scheduling_simulator"
	_metricFlushInterval = 1 * time.Second
)

var (
	version string
	app     = kingpin.New("simulator", "Static workflow scheduling simulator")

	debug = app.Flag(
		"debug", "enable debug mode (per-task schedule dump)").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	outputDir = app.Flag(
		"output-dir",
		"Directory for the result JSON (simulation.outputDirectoryPath override)").
		String()

	outputName = app.Flag(
		"output-name",
		"Result file name without extension (simulation.outputName override)").
		String()
)

func main() {
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	var cfg config.Config
	if err := config.Parse(&cfg, *cfgFiles...); err != nil {
		log.WithField("error", err).Fatal("Cannot parse config")
	}
	if *outputDir != "" {
		cfg.Simulation.OutputDirectoryPath = *outputDir
	}
	if *outputName != "" {
		cfg.Simulation.OutputName = *outputName
	}
	if cfg.Simulation.OutputDirectoryPath == "" {
		cfg.Simulation.OutputDirectoryPath = "results"
	}
	if cfg.Simulation.OutputName == "" {
		cfg.Simulation.OutputName = "results"
	}

	rootScope, scopeCloser := metrics.InitMetricScope(&cfg.Metrics, _metricScope, _metricFlushInterval)
	defer scopeCloser.Close()

	setting, err := environment.Load(cfg.Simulation.EnvironmentSettingPath)
	if err != nil {
		log.WithField("error", err).Fatal("Cannot load environment setting")
	}
	log.WithFields(log.Fields{
		"scenarios":      len(setting.Scenarios),
		"portConstraint": setting.PortConstraint,
		"pseudoTask":     setting.PseudoTask,
	}).Info("loaded environment setting")

	sim := simulation.New(&cfg.Simulation, setting, rootScope)
	schedulingResults, err := sim.Run()
	if len(schedulingResults) > 0 {
		if exportErr := results.Export(
			schedulingResults,
			cfg.Simulation.OutputDirectoryPath,
			cfg.Simulation.OutputName,
		); exportErr != nil {
			log.WithField("error", exportErr).Fatal("Cannot export results")
		}
	}
	if err != nil {
		log.WithField("error", err).Fatal("Simulation finished with failures")
	}
	log.WithField("results", len(schedulingResults)).Info("simulation complete")
}
