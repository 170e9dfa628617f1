package parser

import (
	"strings"
)

// ImageCandidate is an image element as rendered in the browser.
type ImageCandidate struct {
	Src     string  `json:"src"`
	DataSrc string  `json:"dataSrc"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

var (
	priceKeywords     = []string{"가격표", "price", "메뉴판", "menu"}
	photoKeywords     = []string{"업체사진", "방문자", "클립", "블로그"}
	linkExclusions    = []string{"업체", "방문자", "클립", "블로그"}
	homeTabExclusions = []string{"업체사진", "방문자 리뷰"}
)

// PriceLinkMarker is the text the price table link carries.
const PriceLinkMarker = "가격표"

// PageKind is the result of classifying the page shown after clicking the price link.
type PageKind int

const (
	PagePrice PageKind = iota
	PagePhotos
	PageUnknown
)

func (k PageKind) String() string {
	switch k {
	case PagePrice:
		return "price"
	case PagePhotos:
		return "photos"
	default:
		return "unknown"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ClassifyPricePage decides whether the click landed on the price table. Only a
// page with photo keywords and no price keyword counts as the wrong page.
func ClassifyPricePage(html string) PageKind {
	hasPrice := containsAny(html, priceKeywords)
	hasPhoto := containsAny(html, photoKeywords)

	switch {
	case hasPrice:
		return PagePrice
	case hasPhoto:
		return PagePhotos
	default:
		return PageUnknown
	}
}

// IsPriceHomeFrame reports whether a frame looks like the home tab: it mentions
// the price table but is not the photo or review tab.
func IsPriceHomeFrame(html string) bool {
	return strings.Contains(html, PriceLinkMarker) && !containsAny(html, homeTabExclusions)
}

// IsPriceLinkText filters the clickable price link from category labels.
func IsPriceLinkText(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && strings.Contains(text, PriceLinkMarker) && !containsAny(text, linkExclusions)
}

// FilterPriceImages keeps CDN images rendered at least minSize pixels wide or tall,
// src attributes first, then data-src.
func FilterPriceImages(candidates []ImageCandidate, domain string, minSize float64) []string {
	set := newURLSet()
	large := func(c ImageCandidate) bool {
		return c.Width >= minSize || c.Height >= minSize
	}

	for _, c := range candidates {
		if c.Src != "" && strings.Contains(c.Src, domain) && large(c) {
			set.add(ConvertToOriginalSize(c.Src))
		}
	}
	for _, c := range candidates {
		if c.DataSrc != "" && strings.Contains(c.DataSrc, domain) && large(c) {
			set.add(ConvertToOriginalSize(c.DataSrc))
		}
	}

	return set.urls
}
