package voting

// tallyEntry tracks one equivalence key's votes. seq records first-seen
// order so that ties resolve deterministically to the earliest key.
type tallyEntry struct {
	key   string
	count int
	seq   int
	cand  Candidate
}

// tally maps equivalence keys to vote counts. It lives for the duration of
// one Vote call and is never shared across sessions.
type tally struct {
	entries map[string]*tallyEntry
	nextSeq int
}

func newTally() *tally {
	return &tally{entries: make(map[string]*tallyEntry)}
}

// add records one vote for key, remembering the first candidate seen under
// that key, and returns the key's new count.
func (t *tally) add(key string, cand Candidate) int {
	e, ok := t.entries[key]
	if !ok {
		e = &tallyEntry{key: key, seq: t.nextSeq, cand: cand}
		t.nextSeq++
		t.entries[key] = e
	}
	e.count++
	return e.count
}

// topTwo returns the current leader and runner-up. Either may be nil when
// the tally holds fewer than two distinct keys. Equal counts resolve to the
// earliest-seen key, so the leader never changes on a tie.
func (t *tally) topTwo() (leader, runner *tallyEntry) {
	for _, e := range t.entries {
		switch {
		case better(e, leader):
			leader, runner = e, leader
		case better(e, runner):
			runner = e
		}
	}
	return leader, runner
}

// better reports whether a outranks b: more votes, or equal votes seen
// earlier. A nil entry is outranked by anything.
func better(a, b *tallyEntry) bool {
	if b == nil {
		return true
	}
	if a.count != b.count {
		return a.count > b.count
	}
	return a.seq < b.seq
}
