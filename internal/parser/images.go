package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	PhotoDomains = []string{"phinf.pstatic.net", "blogpfthumb", "postfiles"}
	FetchDomains = []string{"sslphinf", "blogpfthumb", "phinf"}
	PriceDomain  = "phinf.pstatic.net"
)

var (
	typeQueryPattern = regexp.MustCompile(`\?type=[wma]\d+`)
	typePathPattern  = regexp.MustCompile(`/type=w\d+/`)
	thumbSizePattern = regexp.MustCompile(`_[0-9]+x[0-9]+`)
	bgURLPattern     = regexp.MustCompile(`background-image\s*:\s*url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// ConvertToOriginalSize rewrites a CDN thumbnail URL to the 1200px rendition.
func ConvertToOriginalSize(url string) string {
	url = typeQueryPattern.ReplaceAllString(url, "?type=w1200")
	url = typePathPattern.ReplaceAllString(url, "/type=w1200/")
	return thumbSizePattern.ReplaceAllString(url, "")
}

func matchesDomain(url string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(url, d) {
			return true
		}
	}
	return false
}

// urlSet keeps first-seen order.
type urlSet struct {
	seen map[string]struct{}
	urls []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

func (s *urlSet) add(url string) {
	if url == "" {
		return
	}
	if _, ok := s.seen[url]; ok {
		return
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
}

// ExtractImageURLs collects image URLs on the given domains from img src and
// data-src attributes, converted to original size.
func ExtractImageURLs(html string, domains []string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	set := newURLSet()
	collect := func(url string) {
		url = strings.TrimSpace(url)
		if url != "" && matchesDomain(url, domains) {
			set.add(ConvertToOriginalSize(url))
		}
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		collect(s.AttrOr("src", ""))
	})
	doc.Find("[data-src]").Each(func(_ int, s *goquery.Selection) {
		collect(s.AttrOr("data-src", ""))
	})

	return set.urls, nil
}

// ExtractBackgroundImageURLs returns absolute URLs used in inline background-image styles.
func ExtractBackgroundImageURLs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	set := newURLSet()
	doc.Find("[style*='background-image']").Each(func(_ int, s *goquery.Selection) {
		style := s.AttrOr("style", "")
		for _, m := range bgURLPattern.FindAllStringSubmatch(style, -1) {
			url := strings.TrimSpace(m[1])
			if strings.HasPrefix(url, "http") {
				set.add(ConvertToOriginalSize(url))
			}
		}
	})

	return set.urls, nil
}

// MergeURLs concatenates lists, dropping duplicates.
func MergeURLs(lists ...[]string) []string {
	set := newURLSet()
	for _, list := range lists {
		for _, url := range list {
			set.add(url)
		}
	}
	return set.urls
}
