package chunker_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/mnemo/internal/chunker"
)

func defaultConfig() chunker.Config {
	return chunker.Config{MaxTokens: 50, OverlapTokens: 10, MinChunkSize: 5}
}

func TestSplit_WithinBudget_SingleChunk(t *testing.T) {
	c := qt.New(t)

	got := chunker.Split("short content", defaultConfig())
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0].Content, qt.Equals, "short content")
	c.Assert(got[0].Index, qt.Equals, 0)
	c.Assert(got[0].Total, qt.Equals, 1)
}

func TestSplit_EmptyContent(t *testing.T) {
	c := qt.New(t)

	got := chunker.Split("", defaultConfig())
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0].Content, qt.Equals, "")
}

func TestSplit_MultipleParagraphs_ProducesMultipleChunks(t *testing.T) {
	c := qt.New(t)

	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 20)
	}
	content := strings.Join(paragraphs, "\n\n")

	got := chunker.Split(content, defaultConfig())
	c.Assert(len(got) > 1, qt.IsTrue)
	for i, ch := range got {
		c.Assert(ch.Index, qt.Equals, i)
		c.Assert(ch.Total, qt.Equals, len(got))
	}
}

func TestSplit_OversizedParagraph_SplitsOnSentences(t *testing.T) {
	c := qt.New(t)

	sentence := strings.Repeat("word ", 15) + "done. "
	content := strings.Repeat(sentence, 6)

	got := chunker.Split(content, defaultConfig())
	c.Assert(len(got) > 1, qt.IsTrue)
}

func TestSplit_SmallChunksMergeBack(t *testing.T) {
	c := qt.New(t)

	cfg := chunker.Config{MaxTokens: 200, OverlapTokens: 0, MinChunkSize: 50}
	content := strings.Repeat("x", 4) + "\n\n" + strings.Repeat("y", 4)

	got := chunker.Split(content, cfg)
	// Both paragraphs are far below min_chunk_size and the whole thing is
	// within max_tokens as one chunk, so this degenerates to a single chunk
	// via the within-budget path — exercised separately above. Here we
	// force the multi-chunk path with a low max_tokens instead.
	cfg2 := chunker.Config{MaxTokens: 3, OverlapTokens: 0, MinChunkSize: 50}
	got = chunker.Split(content, cfg2)
	c.Assert(len(got) >= 1, qt.IsTrue)
}

func TestSplit_Deterministic(t *testing.T) {
	c := qt.New(t)

	content := strings.Repeat("alpha beta gamma delta\n\n", 10)
	cfg := defaultConfig()

	first := chunker.Split(content, cfg)
	second := chunker.Split(content, cfg)
	c.Assert(len(first), qt.Equals, len(second))
	for i := range first {
		c.Assert(first[i].Content, qt.Equals, second[i].Content)
	}
}
