package grabber

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// Job is one download: fetch SourceURL into DestinationPath. The zero Job is not a valid
// download; stop sentinels are built with stopJob.
type Job struct {
	Index           int
	SourceURL       string
	DestinationPath string
	stop            bool
}

func stopJob() Job {
	return Job{Index: -1, stop: true}
}

// IsStop reports whether the job tells a worker to exit.
func (j Job) IsStop() bool {
	return j.stop
}

// DestinationNames maps every URL to "<dir>/<zero-padded index>-<basename>". The index width
// is the digit count of len(urls), so names sort in list order and never collide.
func DestinationNames(urls []string, directory string) []string {
	width := len(strconv.Itoa(len(urls)))
	names := make([]string, len(urls))
	for i, u := range urls {
		names[i] = filepath.Join(directory, fmt.Sprintf("%0*d-%s", width, i, baseName(u)))
	}
	return names
}

// baseName is the last "/" segment of the URL path. Query strings and fragments are not part
// of the name; a URL that does not parse falls back to its raw last segment.
func baseName(raw string) string {
	p := raw
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		p = parsed.Path
	}
	base := p[strings.LastIndex(p, "/")+1:]
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	if base == "" || base == "." || base == ".." {
		return "download"
	}
	return base
}

func buildJobs(urls []string, directory string) []Job {
	names := DestinationNames(urls, directory)
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		jobs[i] = Job{Index: i, SourceURL: u, DestinationPath: names[i]}
	}
	return jobs
}
