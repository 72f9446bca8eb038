package chat

import "fmt"

// Pair is the canonical key of an undirected chat: Low <= High.
// Always build it with NewPair so (a, b) and (b, a) end up equal.
type Pair struct {
	Low  UserID
	High UserID
}

func NewPair(a, b UserID) Pair {
	return Pair{Low: min(a, b), High: max(a, b)}
}

func (p Pair) Contains(userID UserID) bool {
	return p.Low == userID || p.High == userID
}

func (p Pair) String() string {
	return fmt.Sprintf("%d:%d", p.Low, p.High)
}
