// Package lazytext provides an append-optimized builder for assembling
// large texts from many small pieces, streaming the result as a lazy
// sequence of immutable UTF-16 chunks.
//
// A Builder is an immutable description of writes, capacity requests,
// chunk boundaries, and spliced-in existing content. Two builders
// combine in O(1) regardless of how much content either represents;
// the cost of composition is paid only when the composed value is
// executed. Builders form a monoid: the zero value (or Empty) is the
// identity of Append.
//
// Executing a builder with Build produces a Text: a demand-driven
// sequence of non-empty chunks whose concatenation is the logical
// content. Small writes are batched into a shared scratch buffer and
// sealed into a chunk when the buffer fills or an explicit Flush is
// reached; large existing chunks are spliced into the output without
// copying. Consuming chunk N+1 resumes execution exactly where chunk N
// left off, so a consumer that stops demanding stops all further work.
//
// Basic usage:
//
//	b := lazytext.FromString("hello, ").
//		Append(lazytext.FromRune('世')).
//		Append(lazytext.Int(42))
//	t := lazytext.Build(b)
//	fmt.Println(t.String()) // "hello, 世42"
//
// Chunk granularity is tunable per Driver via WithChunkSize,
// WithInlineThreshold and WithInitialCapacity.
//
// A Builder value is immutable and may be reused and shared across
// concurrent executions. Forcing a single Text value is not
// goroutine-safe; a fully forced Text (see Text.Force) may be shared
// freely. Allocation failure during buffer growth is fatal at this
// layer; no operation truncates or drops content.
package lazytext
