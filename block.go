package fse

import "time"

// Block header-id values, packed into the first two bits of every encoded
// block.
const (
	headerRaw    = 0 // literal copy, no entropy coding attempted
	headerRLE    = 1 // single repeated symbol
	headerNormal = 2 // tableLog + header + packed stream
)

// listeners notified at pipeline stage boundaries. Compress and Decompress
// accept a nil slice; callers that want observability pass Listeners built
// from their own Listener implementations.
type Listeners []Listener

func (ls Listeners) notify(evt *Event) {
	for _, l := range ls {
		if l != nil {
			l.ProcessEvent(evt)
		}
	}
}

// Compress entropy-codes src with tableLog==0, letting the normalizer pick
// the table size. Equivalent to Compress2(src, 0, 0, listeners).
func Compress(src []byte, listeners Listeners) ([]byte, *Stats, error) {
	return Compress2(src, 0, 0, listeners)
}

// Compress2 entropy-codes src into a self-contained block: a 2-bit
// header-id followed by whatever that header-id requires. nbSymbolsHint,
// if larger than the alphabet size detected by Count, replaces it (a hint
// at or below the detected size has no effect; useful when a
// caller wants symbol 255's slot reserved even if unused in this block);
// tableLog requests a table size (0 lets the normalizer choose); listeners
// may be nil. Compress2 never fails solely because src is incompressible:
// it falls back to a raw block in that case.
func Compress2(src []byte, nbSymbolsHint, tableLog int, listeners Listeners) ([]byte, *Stats, error) {
	if len(src) == 0 {
		return nil, nil, newError(ErrInvalidParameter, "empty input")
	}

	if nbSymbolsHint > 256 {
		return nil, nil, newError(ErrInvalidParameter, "nbSymbolsHint %d exceeds the 256-symbol alphabet", nbSymbolsHint)
	}

	if len(src) <= 1 {
		out := make([]byte, 1+len(src))
		out[0] = headerRaw
		copy(out[1:], src)
		return out, &Stats{DataBytes: len(src), StreamBytes: len(out)}, nil
	}

	count, nbSymbols, err := Count(src)
	if err != nil {
		return nil, nil, err
	}

	if nbSymbolsHint > nbSymbols {
		nbSymbols = nbSymbolsHint
	}

	stats := &Stats{DataBytes: len(src), Entropy: blockEntropy(count[:nbSymbols], len(src))}

	if nbSymbols == 1 {
		var symbol byte
		for i, c := range count {
			if c > 0 {
				symbol = byte(i)
				break
			}
		}

		out := make([]byte, 2)
		out[0] = headerRLE
		out[1] = symbol
		stats.StreamBytes = len(out)
		return out, stats, nil
	}

	listeners.notify(NewEvent(EVT_BEFORE_NORMALIZE, -1, int64(len(src)), time.Time{}))
	norm, actualTableLog, err := NormalizeCount(count[:nbSymbols], len(src), nbSymbols, tableLog)
	listeners.notify(NewEvent(EVT_AFTER_NORMALIZE, -1, int64(len(src)), time.Time{}))

	if err != nil {
		return nil, nil, err
	}

	if actualTableLog == 0 {
		// NormalizeCount signals the single-symbol degenerate case this
		// way. Count's nbSymbols is one past the highest byte value seen,
		// so a block of one repeated non-zero byte reaches here rather
		// than the nbSymbols == 1 branch above.
		var symbol byte
		best := -1
		for i, c := range count {
			if c > best {
				best, symbol = c, byte(i)
			}
		}

		out := make([]byte, 2)
		out[0] = headerRLE
		out[1] = symbol
		stats.StreamBytes = len(out)
		return out, stats, nil
	}

	listeners.notify(NewEvent(EVT_BEFORE_HEADER, -1, 0, time.Time{}))
	header, err := WriteHeader(norm, nbSymbols, actualTableLog)
	listeners.notify(NewEvent(EVT_AFTER_HEADER, -1, int64(len(header)), time.Time{}))

	if err != nil {
		return nil, nil, err
	}

	stats.HeaderBytes = len(header)

	listeners.notify(NewEvent(EVT_BEFORE_TABLE, -1, 0, time.Time{}))
	ct, err := BuildCTable(norm, nbSymbols, actualTableLog)
	listeners.notify(NewEvent(EVT_AFTER_TABLE, -1, 0, time.Time{}))

	if err != nil {
		return nil, nil, err
	}

	listeners.notify(NewEvent(EVT_BEFORE_STREAM, -1, int64(len(src)), time.Time{}))
	stream, err := CompressUsingCTable(ct, src)
	listeners.notify(NewEvent(EVT_AFTER_STREAM, -1, int64(len(stream)), time.Time{}))

	if err != nil {
		return nil, nil, err
	}

	stats.StreamBytes = len(stream)

	// header[0] already carries the headerNormal id, written by WriteHeader.
	out := make([]byte, 0, len(header)+len(stream))
	out = append(out, header...)
	out = append(out, stream...)

	if len(out) >= len(src) {
		raw := make([]byte, 1+len(src))
		raw[0] = headerRaw
		copy(raw[1:], src)
		stats.HeaderBytes = 0
		stats.StreamBytes = len(raw)
		listeners.notify(NewEvent(EVT_BLOCK_INFO, -1, int64(len(raw)), time.Time{}))
		return raw, stats, nil
	}

	listeners.notify(NewEvent(EVT_BLOCK_INFO, -1, int64(len(out)), time.Time{}))
	return out, stats, nil
}

// Decompress reverses Compress, given the original block's size in bytes.
// originalSize sizes the output buffer and is not checked against the
// block's contents.
func Decompress(block []byte, originalSize int, listeners Listeners) ([]byte, error) {
	return decompress(block, originalSize, false, listeners)
}

// DecompressSafe behaves like Decompress but reports a block too short to
// hold its raw payload or its stream descriptor as ErrOutputOverrun.
// Like Decompress, it never reads past the end of block, and it does not
// check originalSize against the stream before allocating the output.
func DecompressSafe(block []byte, originalSize int, listeners Listeners) ([]byte, error) {
	return decompress(block, originalSize, true, listeners)
}

func decompress(block []byte, originalSize int, safe bool, listeners Listeners) ([]byte, error) {
	if len(block) == 0 {
		return nil, newError(ErrInvalidParameter, "empty input")
	}

	if originalSize < 0 {
		return nil, newError(ErrInvalidParameter, "negative originalSize")
	}

	if originalSize == 0 {
		return nil, nil
	}

	switch block[0] & 3 {
	case headerRaw:
		if len(block) < 1+originalSize {
			if safe {
				return nil, newError(ErrOutputOverrun, "raw block shorter than originalSize")
			}
			return nil, newError(ErrCorruptStream, "raw block shorter than originalSize")
		}

		out := make([]byte, originalSize)
		copy(out, block[1:1+originalSize])
		return out, nil

	case headerRLE:
		if len(block) < 2 {
			return nil, newError(ErrCorruptStream, "RLE block missing symbol byte")
		}

		out := make([]byte, originalSize)
		symbol := block[1]
		for i := range out {
			out[i] = symbol
		}

		return out, nil

	case headerNormal:
		listeners.notify(NewEvent(EVT_BEFORE_HEADER, -1, int64(len(block)), time.Time{}))
		norm, nbSymbols, tableLog, headerBytes, err := ReadHeader(block)
		listeners.notify(NewEvent(EVT_AFTER_HEADER, -1, int64(headerBytes), time.Time{}))

		if err != nil {
			return nil, err
		}

		listeners.notify(NewEvent(EVT_BEFORE_TABLE, -1, 0, time.Time{}))
		dt, err := BuildDTable(norm, nbSymbols, tableLog)
		listeners.notify(NewEvent(EVT_AFTER_TABLE, -1, 0, time.Time{}))

		if err != nil {
			return nil, err
		}

		if headerBytes >= len(block) {
			return nil, newError(ErrCorruptStream, "no payload remains after header")
		}

		if safe {
			descriptorLen := 4
			if headerBytes+descriptorLen > len(block) {
				return nil, newError(ErrOutputOverrun, "stream descriptor would read past block end")
			}
		}

		listeners.notify(NewEvent(EVT_BEFORE_STREAM, -1, int64(originalSize), time.Time{}))
		out, _, err := DecompressUsingDTable(dt, block[headerBytes:], originalSize)
		listeners.notify(NewEvent(EVT_AFTER_STREAM, -1, int64(len(out)), time.Time{}))

		if err != nil {
			return nil, err
		}

		return out, nil

	default:
		return nil, newError(ErrMalformedHeader, "unrecognized header-id %d", block[0]&3)
	}
}
