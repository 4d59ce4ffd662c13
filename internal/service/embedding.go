package service

import (
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingService produces small deterministic embeddings so vector search
// works without an external model.
type EmbeddingService struct{}

var _ EmbeddingServiceInterface = (*EmbeddingService)(nil)

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

// GenerateEmbedding returns length, vowel and consonant counts of the
// lowercased text.
func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	return GenerateEmbedding(text), nil
}

// GenerateEmbedding is the package-level form of EmbeddingService.GenerateEmbedding.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var letters, vowels float32
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune("aeiou", r) {
			vowels++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, letters - vowels})
}
