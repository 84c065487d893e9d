package chunker

import "strings"

// Config controls how a document is split before embedding.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// DefaultConfig returns the chunking parameters used for document ingestion.
// ChunkSize is in characters (runes), not tokens.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   []string{"\n\n", "\n", ". ", " "},
	}
}

// Split divides text into overlapping chunks suitable for embedding.
//
// The separators are scanned in priority order and the first one present in
// the text wins; units produced by that separator are greedily accumulated
// until adding the next one would exceed ChunkSize, at which point the chunk
// is closed and the next chunk is seeded with the trailing ChunkOverlap
// characters of the closed chunk.
//
// Split is deterministic: identical input and config always yield an
// identical sequence. A single unit longer than ChunkSize is emitted as an
// oversized chunk rather than being cut mid-unit; that is a known limitation,
// not silent truncation.
func Split(text string, cfg Config) []string {
	runes := []rune(text)

	// Small enough: single trimmed chunk, or nothing at all.
	if len(runes) <= cfg.ChunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return []string{}
		}
		return []string{trimmed}
	}

	// Pick the highest-priority separator that actually occurs.
	separator := ""
	for _, sep := range cfg.Separators {
		if strings.Contains(text, sep) {
			separator = sep
			break
		}
	}

	var parts []string
	if separator != "" {
		parts = strings.Split(text, separator)
	} else {
		// No separator present: the whole text is one indivisible unit.
		parts = []string{text}
	}

	var chunks []string
	current := ""

	for _, part := range parts {
		potential := current
		if current != "" {
			potential += separator
		}
		potential += part

		if len([]rune(potential)) <= cfg.ChunkSize {
			current = potential
			continue
		}

		if current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}

		// Seed the next chunk with the overlap tail of the closed one.
		current = overlapTail(current, cfg.ChunkOverlap) + part
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

func overlapTail(s string, overlap int) string {
	if overlap <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= overlap {
		return s
	}
	return string(runes[len(runes)-overlap:])
}
