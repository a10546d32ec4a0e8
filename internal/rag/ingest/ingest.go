package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

//splitter

// separators are ordered from "best" to "worst" for semantic meaning
var separators = []string{"\n\n", "\n", " ", ""}

// Split cuts every page into chunks of at most chunkSize characters with up to
// chunkOverlap characters carried between neighbours. Order is global across pages.
func Split(pages []ragModel.Page, chunkSize, chunkOverlap int) []ragModel.Chunk {
	if chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}

	var chunks []ragModel.Chunk
	for _, page := range pages {
		for _, text := range splitText(page.Text, separators, chunkSize, chunkOverlap) {
			chunks = append(chunks, ragModel.Chunk{
				ChunkId:    utils.GetNewUUID(),
				Text:       text,
				SourceFile: page.SourceFile,
				Page:       page.PageNumber,
				Order:      len(chunks),
				ByteSize:   page.FileSize,
			})
		}
	}
	return chunks
}

func splitText(text string, seps []string, chunkSize, overlap int) []string {
	separator := seps[len(seps)-1]
	var rest []string
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			separator = s
			rest = seps[i+1:]
			break
		}
	}

	var pieces []string
	if separator == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, separator)
	}

	var out, good []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if runeLen(p) < chunkSize {
			good = append(good, p)
			continue
		}
		if len(good) > 0 {
			out = append(out, mergeSplits(good, separator, chunkSize, overlap)...)
			good = nil
		}
		if len(rest) == 0 {
			out = append(out, p)
		} else {
			out = append(out, splitText(p, rest, chunkSize, overlap)...)
		}
	}
	if len(good) > 0 {
		out = append(out, mergeSplits(good, separator, chunkSize, overlap)...)
	}
	return out
}

// mergeSplits greedily joins pieces up to chunkSize, keeping a tail of at most
// overlap characters as the head of the next chunk.
func mergeSplits(pieces []string, separator string, chunkSize, overlap int) []string {
	sepLen := runeLen(separator)
	var docs, current []string
	total := 0

	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, p := range pieces {
		l := runeLen(p)
		if total+l+joinLen() > chunkSize {
			if doc := joinTrimmed(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			for total > overlap || (total > 0 && total+l+joinLen() > chunkSize) {
				drop := runeLen(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		current = append(current, p)
		total += l
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc := joinTrimmed(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinTrimmed(parts []string, separator string) string {
	return strings.TrimFunc(strings.Join(parts, separator), unicode.IsSpace)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
