package cmd

import (
	"testing"

	"gopkg.in/yaml.v3"
)

const batchYAML = `
galleries:
  - url: http://www.imagefap.com/pictures/1/First
    directory: first
  - url: "  "
  - url: http://www.imagefap.com/pictures/2/Second
    num_threads: 3
    image_pattern: https?://cdn\.example\.com/full
`

func TestBuildJobsFromBatch(t *testing.T) {
	var batchFile BatchFile
	if err := yaml.Unmarshal([]byte(batchYAML), &batchFile); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	workers = 10
	imagePattern = ""

	jobs, err := buildJobsFromBatch(batchFile)
	if err != nil {
		t.Fatalf("buildJobsFromBatch: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Directory != "first" || jobs[0].Workers != 10 || jobs[0].ImagePattern != "" {
		t.Errorf("first job = %+v", jobs[0])
	}
	if jobs[1].Workers != 3 || jobs[1].ImagePattern != `https?://cdn\.example\.com/full` {
		t.Errorf("second job = %+v", jobs[1])
	}
	if jobs[0].ID == "" || jobs[0].ID == jobs[1].ID {
		t.Error("jobs need distinct ids")
	}
}

func TestBuildJobsFromBatchRejectsNegativeWorkers(t *testing.T) {
	batchFile := BatchFile{Galleries: []BatchEntry{{URL: "http://x/pictures/1/a", Workers: -2}}}
	if _, err := buildJobsFromBatch(batchFile); err == nil {
		t.Error("expected error for negative num_threads")
	}
}
