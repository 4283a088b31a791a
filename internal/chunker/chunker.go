// Package chunker splits memory content into embedding-sized fragments on
// paragraph then sentence boundaries, with overlap and small-chunk merge
// (spec.md §4.2).
package chunker

import (
	"regexp"
	"strings"
)

// Config controls chunk sizing. Mirrors config.ChunkingConfig so callers can
// pass that struct directly without an import cycle.
type Config struct {
	MaxTokens     int
	OverlapTokens int
	MinChunkSize  int
}

// Chunk is one emitted fragment, carrying its position in the stream.
type Chunk struct {
	Content string
	Index   int
	Total   int
}

var paragraphSplitRe = regexp.MustCompile(`\n{2,}`)
var sentenceBoundaryRe = regexp.MustCompile(`[.!?]+\s+`)

// estimateTokens approximates token count as ceil(len_chars/4).
func estimateTokens(s string) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// Split divides content into chunks per cfg. The returned slice is never
// empty for non-empty content, and its Content fields concatenate (modulo
// whitespace normalization and inserted overlap) back to the input.
func Split(content string, cfg Config) []Chunk {
	if estimateTokens(content) <= cfg.MaxTokens {
		return []Chunk{{Content: content, Index: 0, Total: 1}}
	}

	paragraphs := paragraphSplitRe.Split(content, -1)
	var raw []string

	var current strings.Builder
	currentTokens := 0
	prevTail := ""

	flush := func() {
		if current.Len() == 0 {
			return
		}
		raw = append(raw, current.String())
		prevTail = overlapTail(current.String(), cfg.OverlapTokens)
		current.Reset()
		currentTokens = 0
	}

	appendPiece := func(piece string) {
		if current.Len() == 0 && prevTail != "" {
			current.WriteString(prevTail)
			current.WriteString(" ")
			currentTokens += estimateTokens(prevTail)
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(piece)
		currentTokens += estimateTokens(piece)
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pieceTokens := estimateTokens(p)
		if pieceTokens > cfg.MaxTokens {
			// Oversized paragraph: split on sentence boundaries, no overlap.
			flush()
			prevTail = ""
			for _, sentence := range splitSentences(p) {
				sTokens := estimateTokens(sentence)
				if currentTokens+sTokens > cfg.MaxTokens && current.Len() > 0 {
					raw = append(raw, current.String())
					current.Reset()
					currentTokens = 0
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(sentence)
				currentTokens += sTokens
			}
			flush()
			continue
		}

		if currentTokens+pieceTokens > cfg.MaxTokens && current.Len() > 0 {
			flush()
		}
		appendPiece(p)
	}
	flush()

	if len(raw) == 0 {
		raw = []string{content}
	}

	merged := mergeSmall(raw, cfg)

	chunks := make([]Chunk, len(merged))
	for i, c := range merged {
		chunks[i] = Chunk{Content: c, Index: i, Total: len(merged)}
	}
	return chunks
}

// splitSentences breaks text on terminating punctuation followed by
// whitespace (spec.md §4.2 step 3).
func splitSentences(text string) []string {
	idxs := sentenceBoundaryRe.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return []string{text}
	}
	var out []string
	start := 0
	for _, loc := range idxs {
		out = append(out, strings.TrimSpace(text[start:loc[1]]))
		start = loc[1]
	}
	if start < len(text) {
		rest := strings.TrimSpace(text[start:])
		if rest != "" {
			out = append(out, rest)
		}
	}
	return out
}

// overlapTail returns roughly overlapTokens/2 words from the end of s, used
// to prefix the next chunk.
func overlapTail(s string, overlapTokens int) string {
	wantWords := overlapTokens / 2
	if wantWords <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= wantWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[len(words)-wantWords:], " ")
}

// mergeSmall merges chunks smaller than cfg.MinChunkSize tokens into an
// adjacent chunk when the merge stays within cfg.MaxTokens.
func mergeSmall(chunks []string, cfg Config) []string {
	if len(chunks) <= 1 {
		return chunks
	}

	out := make([]string, 0, len(chunks))
	out = append(out, chunks[0])

	for i := 1; i < len(chunks); i++ {
		c := chunks[i]
		if estimateTokens(c) >= cfg.MinChunkSize {
			out = append(out, c)
			continue
		}
		last := out[len(out)-1]
		merged := last + "\n\n" + c
		if estimateTokens(merged) <= cfg.MaxTokens {
			out[len(out)-1] = merged
			continue
		}
		out = append(out, c)
	}

	// A trailing small first chunk (only possible when len==2 and the
	// first didn't meet the threshold) still stands alone per spec.md:
	// "otherwise leave them standalone."
	return out
}
