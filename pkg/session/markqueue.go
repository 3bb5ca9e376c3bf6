package session

import "sync"

// markQueue tracks playback acknowledgment tokens for audio frames that
// have been sent to the caller but not yet confirmed played. Tokens are
// appended on send and removed FIFO on each mark acknowledgment; a
// barge-in clears the whole queue at once.
type markQueue struct {
	mu     sync.Mutex
	tokens []string
}

func (q *markQueue) push(token string) {
	q.mu.Lock()
	q.tokens = append(q.tokens, token)
	q.mu.Unlock()
}

func (q *markQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tokens) == 0 {
		return "", false
	}
	token := q.tokens[0]
	q.tokens = q.tokens[1:]
	return token, true
}

// dropLast retracts the most recently pushed token, used when the mark
// it accounts for never made it onto the wire.
func (q *markQueue) dropLast() {
	q.mu.Lock()
	if n := len(q.tokens); n > 0 {
		q.tokens = q.tokens[:n-1]
	}
	q.mu.Unlock()
}

func (q *markQueue) clear() {
	q.mu.Lock()
	q.tokens = nil
	q.mu.Unlock()
}

func (q *markQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tokens)
}
