package fse

// headerWriter is the forward bit container used by the header codec: bits
// are appended least-significant-bit first and drained into whole bytes as
// they accumulate, exactly as the stream codec's own forward container
// does in stream.go.
type headerWriter struct {
	buf      []byte
	bitBuf   uint64
	bitCount uint
}

func (w *headerWriter) addBits(value uint64, n uint) {
	if n == 0 {
		return
	}

	w.bitBuf |= (value & ((uint64(1) << n) - 1)) << w.bitCount
	w.bitCount += n

	for w.bitCount >= 8 {
		w.buf = append(w.buf, byte(w.bitBuf))
		w.bitBuf >>= 8
		w.bitCount -= 8
	}
}

func (w *headerWriter) bytes() []byte {
	if w.bitCount > 0 {
		w.buf = append(w.buf, byte(w.bitBuf))
		w.bitBuf = 0
		w.bitCount = 0
	}

	return w.buf
}

// headerReader is the mirror-image backward-compatible... in fact it reads
// forward, LSB-first, the same order headerWriter wrote in.
type headerReader struct {
	data     []byte
	pos      int
	bitBuf   uint64
	bitCount uint
	consumed uint
}

func (r *headerReader) ensure(n uint) {
	for r.bitCount < n {
		var b uint64
		if r.pos < len(r.data) {
			b = uint64(r.data[r.pos])
		}
		r.pos++
		r.bitBuf |= b << r.bitCount
		r.bitCount += 8
	}
}

func (r *headerReader) peekBits(n uint) uint64 {
	if n == 0 {
		return 0
	}

	r.ensure(n)
	return r.bitBuf & ((uint64(1) << n) - 1)
}

func (r *headerReader) skipBits(n uint) {
	r.bitBuf >>= n
	r.bitCount -= n
	r.consumed += n
}

func (r *headerReader) getBits(n uint) uint64 {
	v := r.peekBits(n)
	r.skipBits(n)
	return v
}

func (r *headerReader) bytesConsumed() int {
	return int((r.consumed + 7) / 8)
}

// WriteHeader serializes a normalized count vector as described in the
// header codec: a 2-bit header-id (always 2, the normal-block marker), a
// 4-bit tableLog field, then one variable-width field per symbol with a
// zero run-length escape for sparse alphabets.
func WriteHeader(norm []int, nbSymbols, tableLog int) ([]byte, error) {
	if tableLog > MaxTableLog || tableLog < MinTableLog {
		return nil, newError(ErrInvalidParameter, "tableLog %d out of range [%d,%d]", tableLog, MinTableLog, MaxTableLog)
	}

	tableSize := 1 << tableLog
	w := &headerWriter{}

	w.addBits(2, 2) // header-id: normal FSE block
	w.addBits(uint64(tableLog-MinTableLog), 4)

	remaining := tableSize
	threshold := tableSize
	nbBits := tableLog + 1
	charnum := 0
	previous0 := false

	for remaining > 0 {
		if previous0 {
			start := charnum

			for norm[charnum] == 0 {
				charnum++
			}

			for charnum >= start+24 {
				start += 24
				w.addBits(0xFFFF, 16)
			}

			for charnum >= start+3 {
				start += 3
				w.addBits(3, 2)
			}

			w.addBits(uint64(charnum-start), 2)
		}

		count := norm[charnum]
		charnum++
		max := (2*threshold - 1) - remaining
		remaining -= count

		encoded := count
		if count >= threshold {
			encoded += max
		}

		width := uint(nbBits)
		if encoded < max {
			width = uint(nbBits - 1)
		}

		w.addBits(uint64(encoded), width)

		previous0 = count == 0

		for remaining < threshold {
			nbBits--
			threshold >>= 1
		}
	}

	if remaining < 0 {
		return nil, newError(ErrMalformedHeader, "remaining probability mass went negative")
	}

	if charnum > nbSymbols {
		return nil, newError(ErrMalformedHeader, "header wrote more symbols (%d) than declared (%d)", charnum, nbSymbols)
	}

	return w.bytes(), nil
}

// ReadHeader parses a header produced by WriteHeader, returning the
// normalized counts, the symbol count, the tableLog, and the number of
// header bytes consumed from data.
func ReadHeader(data []byte) (norm []int, nbSymbols, tableLog, bytesRead int, err error) {
	if len(data) < 1 {
		return nil, 0, 0, 0, newError(ErrInvalidParameter, "empty header")
	}

	r := &headerReader{data: data}

	r.getBits(2) // header-id, already dispatched by the block codec

	tableLog = int(r.getBits(4)) + MinTableLog

	if tableLog > MaxTableLog {
		return nil, 0, 0, 0, newError(ErrMalformedHeader, "tableLog %d exceeds MaxTableLog %d", tableLog, MaxTableLog)
	}

	remaining := 1 << tableLog
	threshold := remaining
	nbBits := tableLog + 1
	charnum := 0
	previous0 := false
	norm = make([]int, 0, remaining)

	for remaining > 0 {
		if previous0 {
			n0 := charnum

			for r.peekBits(16) == 0xFFFF {
				n0 += 24
				r.skipBits(16)
			}

			for r.peekBits(2) == 3 {
				n0 += 3
				r.skipBits(2)
			}

			n0 += int(r.getBits(2))

			for charnum < n0 {
				norm = append(norm, 0)
				charnum++
			}
		}

		max := (2*threshold - 1) - remaining
		low := r.peekBits(uint(nbBits - 1))

		var count int

		if int(low) < max {
			count = int(low)
			r.skipBits(uint(nbBits - 1))
		} else {
			full := r.peekBits(uint(nbBits))
			count = int(full)

			if count >= threshold {
				count -= max
			}

			r.skipBits(uint(nbBits))
		}

		remaining -= count
		norm = append(norm, count)
		charnum++
		previous0 = count == 0

		for remaining < threshold {
			nbBits--
			threshold >>= 1
		}
	}

	if remaining < 0 {
		return nil, 0, 0, 0, newError(ErrMalformedHeader, "remaining probability mass went negative")
	}

	return norm, charnum, tableLog, r.bytesConsumed(), nil
}
