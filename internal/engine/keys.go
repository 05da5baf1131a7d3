package engine

// KeyTracker classifies the strings produced by a delimiter-based JSON
// tokenizer as keys or values. Drivers call Open/Close on delimiters and
// Scalar for every non-delimiter token.
type KeyTracker struct {
	// one entry per open container; true while an object expects a key
	stack []containerState
}

type containerState struct {
	object       bool
	expectingKey bool
}

// Open records a new container.
func (k *KeyTracker) Open(object bool) {
	k.stack = append(k.stack, containerState{object: object, expectingKey: object})
}

// Close pops the innermost container; the container itself counts as a value
// of its parent.
func (k *KeyTracker) Close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.valueDone()
}

// String reports whether a string token is an object key, updating state.
func (k *KeyTracker) String() (isKey bool) {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	k.valueDone()
	return false
}

// Scalar records a non-string scalar value.
func (k *KeyTracker) Scalar() { k.valueDone() }

func (k *KeyTracker) valueDone() {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
