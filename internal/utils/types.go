package utils

import (
	"net/http"
	"time"
)

type HTTPClientConfig struct {
	Timeout        time.Duration
	KATimeout      time.Duration
	ProxyURL       string
	ProxyUsername  string
	ProxyPassword  string
	UserAgent      string
	Headers        map[string]string
	HighThreadMode bool // larger socket buffers for wide worker pools
}

// HTTPDoer is the request surface shared by the gallery scraper and the download workers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GalleryJob is one gallery to resolve and download.
type GalleryJob struct {
	ID               string
	URL              string
	Directory        string
	Workers          int
	ImagePattern     string // overrides the gallery's full-size image link pattern
	HTTPClientConfig HTTPClientConfig
}
