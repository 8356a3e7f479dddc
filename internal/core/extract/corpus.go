package extract

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Case is one regression example
type Case struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
	Now  string `yaml:"now,omitempty"`
	Want Result `yaml:"want"`
}

// Corpus is a YAML file of cases sharing a default reference instant
type Corpus struct {
	Now   string `yaml:"now"`
	Cases []Case `yaml:"cases"`
}

// Outcome is a case next to what the extractor returned
type Outcome struct {
	Case Case
	Got  Result
	Err  error
}

// Pass reports whether every field matched
func (o Outcome) Pass() bool { return o.Err == nil && o.Got == o.Case.Want }

// LoadCorpus decodes a corpus and checks every case has a usable reference instant
func LoadCorpus(r io.Reader) (*Corpus, error) {
	var c Corpus
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("corpus: decode: %w", err)
	}
	for i, cs := range c.Cases {
		if _, err := c.now(cs); err != nil {
			return nil, fmt.Errorf("corpus: case %d (%s): %w", i, cs.Name, err)
		}
	}
	return &c, nil
}

func (c *Corpus) now(cs Case) (time.Time, error) {
	raw := cs.Now
	if raw == "" {
		raw = c.Now
	}
	if raw == "" {
		return time.Time{}, fmt.Errorf("no reference instant")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad now %q: %w", raw, err)
	}
	return t, nil
}

// Evaluate runs every case through e
func (e *Extractor) Evaluate(c *Corpus) []Outcome {
	out := make([]Outcome, 0, len(c.Cases))
	for _, cs := range c.Cases {
		now, err := c.now(cs)
		o := Outcome{Case: cs, Err: err}
		if err == nil {
			o.Got = e.Extract(cs.Text, now)
		}
		out = append(out, o)
	}
	return out
}
