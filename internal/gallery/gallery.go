package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tanq16/galgrab/internal/scraper"
	"github.com/tanq16/galgrab/internal/utils"
)

const (
	DefaultPhotoPattern = `/photo/`
	DefaultImagePattern = `https?://fap\.to/images/full`
)

var (
	ErrInvalidGallery = errors.New("invalid gallery URL")
	ErrNotDirectory   = errors.New("path exists and is not a directory")
	ErrNoPhotoPages   = errors.New("no photo pages found in gallery")
)

var galleryIDRegex = regexp.MustCompile(`^\d+$`)

// ScrapeError is returned when a gallery or photo page does not answer with 200.
type ScrapeError struct {
	URL        string
	StatusCode int
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("for url '%s', received status code %d", e.URL, e.StatusCode)
}

// Gallery is a resolved gallery URL and the local directory its images go to.
type Gallery struct {
	URL         string
	ID          string
	BaseURL     string
	FullPageURL string
	Name        string
	Directory   string

	// PhotoPattern selects photo page links on the gallery page; ImagePattern selects full-size
	// image links on a photo page.
	PhotoPattern string
	ImagePattern string

	base       *url.URL
	photoPages []string
	imageLinks []string
}

// Resolve validates rawURL and derives the gallery id, base URL, single-page listing URL, name
// and destination directory. An empty directory is derived from the gallery name.
func Resolve(rawURL, directory string) (*Gallery, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGallery, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: unsupported URL %q", ErrInvalidGallery, rawURL)
	}
	segments := strings.Split(strings.TrimSuffix(parsed.Path, "/"), "/")
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: no gallery id in %q", ErrInvalidGallery, rawURL)
	}
	id := segments[len(segments)-2]
	if !galleryIDRegex.MatchString(id) {
		return nil, fmt.Errorf("%w: unexpected gallery id %q", ErrInvalidGallery, id)
	}
	if gid := parsed.Query().Get("gid"); gid != "" && gid != id {
		return nil, fmt.Errorf("%w: gid from URL and gid from query don't match (%s,%s)", ErrInvalidGallery, id, gid)
	}

	base := *parsed
	base.RawQuery = ""
	base.Fragment = ""
	base.Path = strings.TrimSuffix(base.Path, "/")
	base.RawPath = ""

	name := strings.ReplaceAll(path.Base(base.Path), "-", " ")
	if directory == "" {
		directory = filepath.Join(".", strings.ToLower(strings.ReplaceAll(name, " ", "_")))
	}
	return &Gallery{
		URL:          rawURL,
		ID:           id,
		BaseURL:      base.String(),
		FullPageURL:  fmt.Sprintf("%s?gid=%s&view=2", base.String(), id),
		Name:         name,
		Directory:    directory,
		PhotoPattern: DefaultPhotoPattern,
		ImagePattern: DefaultImagePattern,
		base:         &base,
	}, nil
}

// EnsureDirectory creates the destination directory when it does not exist yet.
func (g *Gallery) EnsureDirectory() error {
	info, err := os.Stat(g.Directory)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(g.Directory, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("the file '%s': %w", g.Directory, ErrNotDirectory)
	}
	return nil
}

// PhotoPages fetches the single-page listing and returns absolute photo page URLs.
func (g *Gallery) PhotoPages(ctx context.Context, client utils.HTTPDoer) ([]string, error) {
	if g.photoPages != nil {
		return g.photoPages, nil
	}
	links, err := g.scrape(ctx, client, g.FullPageURL, g.PhotoPattern)
	if err != nil {
		return nil, err
	}
	pages := make([]string, 0, len(links))
	for _, link := range links {
		ref, err := g.base.Parse(link)
		if err != nil {
			continue
		}
		pages = append(pages, ref.String())
	}
	g.photoPages = pages
	return pages, nil
}

// ImageLinks returns the full-size image URLs listed on the first photo page, which carries
// the whole gallery's navigation strip.
func (g *Gallery) ImageLinks(ctx context.Context, client utils.HTTPDoer) ([]string, error) {
	if g.imageLinks != nil {
		return g.imageLinks, nil
	}
	pages, err := g.PhotoPages(ctx, client)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNoPhotoPages
	}
	links, err := g.scrape(ctx, client, pages[0], g.ImagePattern)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []string{}
	}
	g.imageLinks = links
	return links, nil
}

func (g *Gallery) scrape(ctx context.Context, client utils.HTTPDoer, pageURL, pattern string) ([]string, error) {
	log := utils.GetLogger("gallery")
	s, err := scraper.NewAttributeScraper("a", "href", pattern)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GET request: %w", err)
	}
	log.Debug().Str("url", pageURL).Msg("Fetching page")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ScrapeError{URL: pageURL, StatusCode: resp.StatusCode}
	}
	links, err := s.Scrape(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", pageURL).Int("links", len(links)).Msg("Page scraped")
	return links, nil
}
