package vectorDB

import (
	"unicode/utf8"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

// PartitionBatches groups chunks in order so that the cumulative character
// count of a batch never exceeds limit. A chunk longer than limit is placed in
// a batch of its own.
func PartitionBatches(chunks []ragModel.Chunk, limit int) [][]ragModel.Chunk {
	var (
		batches [][]ragModel.Chunk
		current []ragModel.Chunk
		size    int
	)

	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Text)
		if len(current) > 0 && size+n > limit {
			batches = append(batches, current)
			current, size = nil, 0
		}
		current = append(current, c)
		size += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
