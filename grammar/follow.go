package grammar

// genFollowSets computes FOLLOW for every non-terminal. The start rule
// seeds EOF; the sets then grow until a full pass leaves every set equal to
// its pre-pass snapshot. FIRST must be computed first.
func (b *Builder) genFollowSets() {
	follows := map[Token]*TokenSet{}
	for _, n := range b.nonTerminals.Tokens() {
		follows[n] = NewTokenSet()
	}
	follows[b.start].Add(b.eof)
	b.follows = follows

	for {
		snapshot := map[Token]*TokenSet{}
		for _, n := range b.nonTerminals.Tokens() {
			snapshot[n] = follows[n].Clone()
		}
		for _, prod := range b.prods.productions() {
			for _, alt := range prod.alts {
				for i, sym := range alt {
					if !sym.IsNonTerminal() {
						continue
					}
					fst := b.firstOfSequence(alt[i+1:])
					for _, m := range fst.Tokens() {
						if !m.IsEmpty() {
							follows[sym].Add(m)
						}
					}
					if fst.Contains(TokenEmpty) {
						follows[sym].Merge(follows[prod.lhs])
					}
				}
			}
		}
		stable := true
		for _, n := range b.nonTerminals.Tokens() {
			if !follows[n].Equal(snapshot[n]) {
				stable = false
				break
			}
		}
		if stable {
			return
		}
	}
}
