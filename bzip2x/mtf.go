package bzip2x

// mtfState is the move-to-front recency stack over the symbols in use
// in one block (spec §4.5 step 13: "initial MTF stack is identity on
// bytes 0..255" restricted here to the in-use alphabet).
type mtfState struct {
	stack []byte
}

func newMTFState(inUse []byte) *mtfState {
	return &mtfState{stack: append([]byte(nil), inUse...)}
}

// top returns the current move-to-front head symbol without altering
// the stack; RUNA/RUNB runs decode to repeats of this byte.
func (m *mtfState) top() byte {
	return m.stack[0]
}

// decode resolves an MTF index to its byte and moves that byte to the
// front of the stack, as a regular (non-run) symbol does.
func (m *mtfState) decode(idx int) byte {
	b := m.stack[idx]
	copy(m.stack[1:idx+1], m.stack[0:idx])
	m.stack[0] = b
	return b
}
