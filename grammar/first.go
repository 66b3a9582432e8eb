package grammar

// genFirstSets computes FIRST for every token. Terminals seed their own
// singleton, ε seeds {ε}, and the non-terminal sets grow until a full pass
// leaves every set equal to its pre-pass snapshot.
func (b *Builder) genFirstSets() {
	firsts := map[Token]*TokenSet{
		TokenEmpty: NewTokenSet(TokenEmpty),
	}
	for _, t := range b.terminals.Tokens() {
		firsts[t] = NewTokenSet(t)
	}
	for _, n := range b.nonTerminals.Tokens() {
		firsts[n] = NewTokenSet()
	}
	b.firsts = firsts

	for {
		snapshot := map[Token]*TokenSet{}
		for _, n := range b.nonTerminals.Tokens() {
			snapshot[n] = firsts[n].Clone()
		}
		for _, prod := range b.prods.productions() {
			for _, alt := range prod.alts {
				firsts[prod.lhs].Merge(b.firstOfSequence(alt))
			}
		}
		stable := true
		for _, n := range b.nonTerminals.Tokens() {
			if !firsts[n].Equal(snapshot[n]) {
				stable = false
				break
			}
		}
		if stable {
			return
		}
	}
}

// firstOfSequence computes FIRST of a token sequence against the FIRST sets
// computed so far. FIRST of the empty sequence is {ε}.
func (b *Builder) firstOfSequence(seq []Token) *TokenSet {
	fst := NewTokenSet()
	for _, t := range seq {
		e := b.firsts[t]
		if e == nil {
			return fst
		}
		for _, m := range e.Tokens() {
			if !m.IsEmpty() {
				fst.Add(m)
			}
		}
		if !e.Contains(TokenEmpty) {
			return fst
		}
	}
	fst.Add(TokenEmpty)
	return fst
}
