package csvresponse

import "iter"

// FromSeq creates an Encoder from a typed sequence. The sequence is drained
// immediately; each element must be row-like when the Encoder encodes.
func FromSeq[T any](seq iter.Seq[T], filename string, addHeading, addBom bool) *Encoder {
	return newEncoder(collect(seq), filename, addHeading, addBom)
}

// FromChan creates an Encoder from a channel. It reads until ch is closed.
// It is a thin wrapper around [FromSeq].
func FromChan[T any](ch <-chan T, filename string, addHeading, addBom bool) *Encoder {
	return FromSeq(chanToIter(ch), filename, addHeading, addBom)
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func collect[T any](seq iter.Seq[T]) []any {
	items := []any{}
	seq(func(item T) bool {
		items = append(items, item)
		return true
	})
	return items
}
