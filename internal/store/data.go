package store

import "time"

// Chunk is one retrievable piece of an ingested document.
type Chunk struct {
	ID        string
	Source    string
	Index     int
	Content   string
	Hash      string
	CreatedAt time.Time
}

// Hit is a chunk returned by Search with its relevance score.
type Hit struct {
	Chunk
	Score float64
}
