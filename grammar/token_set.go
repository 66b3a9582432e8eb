package grammar

// TokenSet is a set of tokens that remembers the order its members were
// inserted in. Iteration order is the insertion order, which makes the
// outputs that depend on it reproducible.
type TokenSet struct {
	order   []Token
	members map[Token]struct{}
}

func NewTokenSet(toks ...Token) *TokenSet {
	s := &TokenSet{
		members: map[Token]struct{}{},
	}
	for _, t := range toks {
		s.Add(t)
	}
	return s
}

// Add inserts a token and reports whether the set changed. Inserting a
// member the set already holds is a no-op.
func (s *TokenSet) Add(t Token) bool {
	if _, ok := s.members[t]; ok {
		return false
	}
	s.members[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

// Merge inserts every member of target and reports whether the set changed.
func (s *TokenSet) Merge(target *TokenSet) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, t := range target.order {
		if s.Add(t) {
			changed = true
		}
	}
	return changed
}

func (s *TokenSet) Remove(t Token) {
	if _, ok := s.members[t]; !ok {
		return
	}
	delete(s.members, t)
	for i, m := range s.order {
		if m == t {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *TokenSet) Contains(t Token) bool {
	_, ok := s.members[t]
	return ok
}

func (s *TokenSet) Len() int {
	return len(s.order)
}

// Tokens returns the members in insertion order. The returned slice is a
// copy and may be retained by the caller.
func (s *TokenSet) Tokens() []Token {
	toks := make([]Token, len(s.order))
	copy(toks, s.order)
	return toks
}

// Equal reports whether two sets hold the same members in the same
// insertion order.
func (s *TokenSet) Equal(target *TokenSet) bool {
	if target == nil || len(s.order) != len(target.order) {
		return false
	}
	for i, t := range s.order {
		if target.order[i] != t {
			return false
		}
	}
	return true
}

func (s *TokenSet) Clone() *TokenSet {
	c := &TokenSet{
		order:   make([]Token, len(s.order)),
		members: make(map[Token]struct{}, len(s.members)),
	}
	copy(c.order, s.order)
	for t := range s.members {
		c.members[t] = struct{}{}
	}
	return c
}
