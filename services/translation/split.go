package translation

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize keeps requests under the translation service's
// 500-character query limit.
const DefaultChunkSize = 450

// SplitText breaks text into chunks of at most maxLen characters. Whole
// lines are packed greedily, so joining the chunks with "\n" restores the
// text. A line longer than maxLen gets chunks of its own, split between
// words; only a single word longer than maxLen is cut mid-word.
func SplitText(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}

	var (
		chunks  []string
		current strings.Builder
		curLen  int
		hasCur  bool
	)
	flush := func() {
		if hasCur {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		curLen = 0
		hasCur = false
	}

	for _, line := range strings.Split(text, "\n") {
		lineLen := utf8.RuneCountInString(line)

		if lineLen > maxLen {
			flush()
			chunks = append(chunks, splitLine(line, maxLen)...)
			continue
		}

		if hasCur && curLen+1+lineLen > maxLen {
			flush()
		}
		if hasCur {
			current.WriteByte('\n')
			curLen++
		}
		current.WriteString(line)
		curLen += lineLen
		hasCur = true
	}
	flush()

	return chunks
}

// splitLine packs the words of an over-long line into chunks.
func splitLine(line string, maxLen int) []string {
	var (
		chunks  []string
		current []string
		curLen  int
	)
	for _, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > maxLen {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, " "))
				current, curLen = nil, 0
			}
			chunks = append(chunks, hardSplit(word, maxLen)...)
			continue
		}

		extra := wordLen
		if len(current) > 0 {
			extra++
		}
		if curLen+extra > maxLen {
			chunks = append(chunks, strings.Join(current, " "))
			current, curLen = nil, 0
			extra = wordLen
		}
		current = append(current, word)
		curLen += extra
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func hardSplit(word string, maxLen int) []string {
	runes := []rune(word)
	var out []string
	for len(runes) > maxLen {
		out = append(out, string(runes[:maxLen]))
		runes = runes[maxLen:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
