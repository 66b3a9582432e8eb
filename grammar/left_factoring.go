package grammar

// factorLeft removes FIRST/FIRST collisions on the leading token: when two
// or more alternatives of a production begin with the same token x, the
// collision is factored into A → xA′ with A′ holding the tails. Multi-token
// common prefixes need no special handling; after one token is factored the
// collision reappears at the next position inside A′ and a later pass picks
// it up.
func (b *Builder) factorLeft() {
	for {
		changed := false
	scan:
		for _, prod := range b.prods.productions() {
			for _, alt := range prod.alts {
				x := alt[0]
				if x.IsEmpty() {
					continue
				}
				var gamma []int
				for i, a := range prod.alts {
					if a[0] == x {
						gamma = append(gamma, i)
					}
				}
				if len(gamma) < 2 {
					continue
				}
				b.factorProduction(prod, x, gamma)
				changed = true
				break scan
			}
		}
		if !changed {
			return
		}
	}
}

func (b *Builder) factorProduction(prod *production, x Token, gamma []int) {
	fresh := b.mintNonTerminal(prod.lhs)

	factored := map[int]struct{}{}
	for _, i := range gamma {
		factored[i] = struct{}{}
	}

	var rest [][]Token
	var tails [][]Token
	for i, alt := range prod.alts {
		if _, ok := factored[i]; !ok {
			rest = append(rest, alt)
			continue
		}
		if len(alt) == 1 {
			// The alternative was exactly [x]; its tail normalizes to ε.
			tails = append(tails, []Token{TokenEmpty})
			continue
		}
		tail := make([]Token, len(alt)-1)
		copy(tail, alt[1:])
		tails = append(tails, tail)
	}

	prod.alts = append(rest, []Token{x, fresh})
	for _, tail := range tails {
		b.prods.append(fresh, tail)
	}
}
