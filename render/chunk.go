package render

// Chunker spreads features over documents holding roughly max features.
// The limit is checked before each input unit, so a document may exceed max
// by the size of the last unit added to it.
type Chunker struct {
	max   int
	title func(part int) (name, description string)
	docs  []*Document
}

// NewChunker numbers parts from 1.
func NewChunker(max int, title func(part int) (name, description string)) *Chunker {
	c := &Chunker{max: max, title: title}
	c.start()
	return c
}

func (c *Chunker) start() {
	name, desc := c.title(len(c.docs) + 1)
	c.docs = append(c.docs, NewDocument(name, desc))
}

// Next returns the document the next unit goes into.
func (c *Chunker) Next() *Document {
	if cur := c.docs[len(c.docs)-1]; cur.Len() >= c.max {
		c.start()
	}
	return c.docs[len(c.docs)-1]
}

// Documents returns every part, including empty ones.
func (c *Chunker) Documents() []*Document {
	return c.docs
}
