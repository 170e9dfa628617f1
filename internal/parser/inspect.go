package parser

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PageReport summarizes the structure of a page for manual selector work.
type PageReport struct {
	Texts         []string      `json:"texts"`
	Classes       []string      `json:"classes"`
	IFrames       []FrameInfo   `json:"iframes"`
	PhotoElements []ElementInfo `json:"photo_elements"`
	PhotoMatches  int           `json:"photo_matches"`
	Images        []ImageInfo   `json:"images"`
	ImageCount    int           `json:"image_count"`
}

type FrameInfo struct {
	Src string `json:"src"`
	ID  string `json:"id"`
}

type ElementInfo struct {
	Tag   string `json:"tag"`
	Class string `json:"class"`
	Text  string `json:"text"`
}

type ImageInfo struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

const (
	textSampleLimit   = 50
	shortTextMaxRunes = 20
	classSampleLimit  = 100
	photoElementLimit = 10
	imageSampleLimit  = 5
	PhotoKeyword      = "사진"
)

func AnalyzePage(html string) (*PageReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	report := &PageReport{}

	texts := make(map[string]struct{})
	for _, selector := range []string{"a", "button", "span", "div[role='tab']"} {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if i >= textSampleLimit {
				return
			}
			text := strings.TrimSpace(s.Text())
			if text != "" && utf8.RuneCountInString(text) < shortTextMaxRunes {
				texts[text] = struct{}{}
			}
		})
	}
	report.Texts = sortedKeys(texts)

	classes := make(map[string]struct{})
	doc.Find("div[class]").Each(func(i int, s *goquery.Selection) {
		if i >= classSampleLimit {
			return
		}
		if class := strings.TrimSpace(s.AttrOr("class", "")); class != "" {
			classes[class] = struct{}{}
		}
	})
	report.Classes = sortedKeys(classes)

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		report.IFrames = append(report.IFrames, FrameInfo{
			Src: s.AttrOr("src", ""),
			ID:  s.AttrOr("id", ""),
		})
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, PhotoKeyword) {
			return
		}
		report.PhotoMatches++
		if len(report.PhotoElements) >= photoElementLimit {
			return
		}
		report.PhotoElements = append(report.PhotoElements, ElementInfo{
			Tag:   goquery.NodeName(s),
			Class: s.AttrOr("class", ""),
			Text:  Truncate(strings.TrimSpace(text), 30),
		})
	})

	images := doc.Find("img")
	report.ImageCount = images.Length()
	images.Each(func(i int, s *goquery.Selection) {
		if i >= imageSampleLimit {
			return
		}
		report.Images = append(report.Images, ImageInfo{
			Src: s.AttrOr("src", ""),
			Alt: s.AttrOr("alt", ""),
		})
	})

	return report, nil
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
