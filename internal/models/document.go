package models

// Platform identifies a CDP vendor. It is both the storage key of a
// PlatformDoc and the token the relevance gate looks for in questions.
type Platform string

const (
	Segment   Platform = "segment"
	MParticle Platform = "mparticle"
	Lytics    Platform = "lytics"
	Zeotap    Platform = "zeotap"
)

type Source struct {
	Platform Platform `yaml:"platform"`
	URL      string   `yaml:"url"`
}

// DefaultSources returns the documentation pages ingested at startup.
func DefaultSources() []Source {
	return []Source{
		{Platform: Segment, URL: "https://segment.com/docs/?ref=nav"},
		{Platform: MParticle, URL: "https://docs.mparticle.com/"},
		{Platform: Lytics, URL: "https://docs.lytics.com/"},
		{Platform: Zeotap, URL: "https://docs.zeotap.com/home/en-us/"},
	}
}

type PlatformDoc struct {
	Platform Platform
	Content  string
}

// Corpus is the in-memory platform -> content mapping built once by
// ingestion. It is not modified after construction.
type Corpus struct {
	order   []Platform
	content map[Platform]string
}

// NewCorpus builds a corpus from docs. A later doc for the same platform
// replaces the earlier one but keeps its position.
func NewCorpus(docs []PlatformDoc) *Corpus {
	c := &Corpus{content: make(map[Platform]string, len(docs))}
	for _, doc := range docs {
		if _, ok := c.content[doc.Platform]; !ok {
			c.order = append(c.order, doc.Platform)
		}
		c.content[doc.Platform] = doc.Content
	}
	return c
}

func (c *Corpus) Platforms() []Platform {
	out := make([]Platform, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Corpus) Content(p Platform) (string, bool) {
	content, ok := c.content[p]
	return content, ok
}

func (c *Corpus) Docs() []PlatformDoc {
	docs := make([]PlatformDoc, 0, len(c.order))
	for _, p := range c.order {
		docs = append(docs, PlatformDoc{Platform: p, Content: c.content[p]})
	}
	return docs
}

func (c *Corpus) Len() int {
	return len(c.order)
}
