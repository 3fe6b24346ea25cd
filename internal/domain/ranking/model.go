package ranking

import "strconv"

// Entry is one player's placement in an award year's ranking list.
type Entry struct {
	Rank        int
	PlayerName  string
	Nationality string
	Clubs       string
	Year        int
}

// Key identifies a row inside one fetched list. The upstream guarantees
// that (rank, player name) pairs do not repeat within a single response.
func (e Entry) Key() string {
	return strconv.Itoa(e.Rank) + "-" + e.PlayerName
}

// List keeps the order in which the upstream returned the entries.
type List []Entry

func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
