package services

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// JobDescriptionCleaner normalises job descriptions pasted from job boards,
// which often arrive as HTML.
type JobDescriptionCleaner struct{}

func NewJobDescriptionCleaner() *JobDescriptionCleaner {
	return &JobDescriptionCleaner{}
}

// Clean returns plain text unchanged apart from trimming. HTML is reduced
// to its paragraph, list and heading text.
func (c *JobDescriptionCleaner) Clean(input string) string {
	input = strings.TrimSpace(input)
	if !htmlTagPattern.MatchString(input) {
		return input
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return collapseSpace(htmlTagPattern.ReplaceAllString(input, " "))
	}
	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		blocks = append(blocks, text)
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n")
	}

	return collapseSpace(doc.Text())
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
