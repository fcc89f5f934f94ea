package feedimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"viralclips/models"
)

// ErrNoEpisodes is returned when a feed has no item linking to a YouTube video.
var ErrNoEpisodes = errors.New("feed contains no YouTube episodes")

// Episode is a feed item that links to a YouTube video.
type Episode struct {
	Title      string     `json:"title"`
	YouTubeURL string     `json:"youtube_url"`
	YouTubeID  string     `json:"youtube_id"`
	ItemLink   string     `json:"item_link,omitempty"`
	Published  *time.Time `json:"published,omitempty"`
}

// Importer finds YouTube episodes in podcast RSS/Atom feeds.
type Importer struct {
	feedParser *gofeed.Parser
	logger     logrus.FieldLogger
}

// New creates an importer. httpClient may be nil to use gofeed's default.
func New(httpClient *http.Client, logger logrus.FieldLogger) *Importer {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}
	return &Importer{feedParser: parser, logger: logger}
}

// Fetch downloads and parses the feed at feedURL and returns at most limit
// episodes (all of them when limit <= 0), in feed order.
func (i *Importer) Fetch(ctx context.Context, feedURL string, limit int) ([]Episode, error) {
	feed, err := i.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	episodes := i.episodes(feed, limit)
	i.logger.WithFields(logrus.Fields{"feed_url": feedURL, "episodes": len(episodes)}).Info("Parsed podcast feed")
	if len(episodes) == 0 {
		return nil, ErrNoEpisodes
	}
	return episodes, nil
}

// Parse is Fetch for an already downloaded feed.
func (i *Importer) Parse(r io.Reader, limit int) ([]Episode, error) {
	feed, err := i.feedParser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	episodes := i.episodes(feed, limit)
	if len(episodes) == 0 {
		return nil, ErrNoEpisodes
	}
	return episodes, nil
}

func (i *Importer) episodes(feed *gofeed.Feed, limit int) []Episode {
	if feed == nil {
		return nil
	}

	seen := make(map[string]bool)
	var episodes []Episode
	for _, item := range feed.Items {
		if limit > 0 && len(episodes) >= limit {
			break
		}
		id := firstYouTubeID(candidateLinks(item, i.logger))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		episodes = append(episodes, Episode{
			Title:      strings.TrimSpace(item.Title),
			YouTubeURL: "https://www.youtube.com/watch?v=" + id,
			YouTubeID:  id,
			ItemLink:   item.Link,
			Published:  item.PublishedParsed,
		})
	}
	return episodes
}

// candidateLinks lists the item's own links first, then links found in its HTML.
func candidateLinks(item *gofeed.Item, logger logrus.FieldLogger) []string {
	links := []string{item.Link}
	links = append(links, item.Links...)
	for _, enclosure := range item.Enclosures {
		if enclosure != nil {
			links = append(links, enclosure.URL)
		}
	}
	for _, html := range []string{item.Description, item.Content} {
		found, err := linksInHTML(html)
		if err != nil {
			logger.WithError(err).WithField("item", item.Title).Debug("Skipping unparsable item HTML")
			continue
		}
		links = append(links, found...)
	}
	return links
}

// linksInHTML returns the targets of anchors and embedded players.
func linksInHTML(html string) ([]string, error) {
	html = strings.TrimSpace(html)
	if html == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href], iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"href", "src"} {
			if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
				links = append(links, strings.TrimSpace(v))
			}
		}
	})
	return links, nil
}

func firstYouTubeID(links []string) string {
	for _, link := range links {
		if id := models.ExtractYouTubeID(link); id != "" {
			return id
		}
	}
	return ""
}
