// ABOUTME: Buffer labels for ping-pong buffering
// ABOUTME: Identifies which of the two buffers in a pair a role refers to
package pipeline

// Label names one buffer of a BufferPair
type Label uint8

const (
	A Label = iota
	B
)

// Other returns the opposite buffer
func (l Label) Other() Label {
	return l ^ 1
}

func (l Label) String() string {
	if l == A {
		return "A"
	}
	return "B"
}

// labelOf maps a flip generation to the buffer being written during it
func labelOf(gen uint64) Label {
	return Label(gen & 1)
}
