package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

// jobsFile is the --jobs document:
//
//	jobs:
//	  - league: 39
//	    season: 2023
type jobsFile struct {
	Jobs []usecase.RunInput `yaml:"jobs"`
}

func resolveJobs(path string, leagueID int, seasons []int) ([]usecase.RunInput, error) {
	if strings.TrimSpace(path) != "" {
		return readJobsFile(path)
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("batch needs --jobs or at least one --season")
	}

	jobs := make([]usecase.RunInput, 0, len(seasons))
	for _, season := range seasons {
		jobs = append(jobs, usecase.RunInput{LeagueID: leagueID, Season: season})
	}
	return jobs, nil
}

func readJobsFile(path string) ([]usecase.RunInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var doc jobsFile
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse jobs file %s: %w", path, err)
	}
	if len(doc.Jobs) == 0 {
		return nil, fmt.Errorf("jobs file %s lists no jobs", path)
	}
	for i, job := range doc.Jobs {
		if job.LeagueID <= 0 || job.Season <= 0 {
			return nil, fmt.Errorf("jobs file %s: jobs[%d] needs a positive league and season", path, i)
		}
	}
	return doc.Jobs, nil
}
