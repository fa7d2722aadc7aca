package matcher

// roleQueue is a FIFO of actor tokens for a single role. Tokens are
// monotonically increasing sequence numbers so that consumption order is
// structurally observable. The queue has no locking of its own; the matcher
// lock guards every access.
type roleQueue struct {
	tokens []uint64
}

// push appends a token.
func (q *roleQueue) push(token uint64) {
	q.tokens = append(q.tokens, token)
}

// size returns the current depth.
func (q *roleQueue) size() int {
	return len(q.tokens)
}

// pop removes and returns the oldest token. Callers must confirm size()
// under the same lock first; popping an empty queue returns false.
func (q *roleQueue) pop() (uint64, bool) {
	if len(q.tokens) == 0 {
		return 0, false
	}
	token := q.tokens[0]
	q.tokens = q.tokens[1:]
	return token, true
}
