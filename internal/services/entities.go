package services

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Entity is one named-entity annotation. Labels come from the tagger and
// are not enumerated here (PERSON, GPE, ORG and so on).
type Entity struct {
	Span  string `json:"span"`
	Label string `json:"label"`
}

type EntityEnhancer interface {
	Enhance(text string) ([]Entity, error)
}

type proseEnhancer struct{}

// NewEntityEnhancer returns an enhancer backed by prose's bundled model.
func NewEntityEnhancer() EntityEnhancer {
	return &proseEnhancer{}
}

func (p *proseEnhancer) Enhance(text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []Entity{}, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to analyse text: %w", err)
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Span: e.Text, Label: e.Label})
	}
	return out, nil
}
