package grammar

import "fmt"

// eliminateLeftRecursion rewrites every directly left-recursive production
// A → Aα | β into A → βA′ and A′ → αA′ | ε. Each rewrite restarts the scan;
// the loop ends when a full pass finds no left-recursive production.
func (b *Builder) eliminateLeftRecursion() {
	for {
		changed := false
		for _, prod := range b.prods.productions() {
			if !isDirectlyLeftRecursive(prod) {
				continue
			}
			b.rewriteLeftRecursion(prod)
			changed = true
			break
		}
		if !changed {
			return
		}
	}
}

func isDirectlyLeftRecursive(prod *production) bool {
	for _, alt := range prod.alts {
		if alt[0] == prod.lhs {
			return true
		}
	}
	return false
}

func (b *Builder) rewriteLeftRecursion(prod *production) {
	var alphas [][]Token
	var betas [][]Token
	for _, alt := range prod.alts {
		if alt[0] != prod.lhs {
			betas = append(betas, alt)
			continue
		}
		tail := alt[1:]
		if len(tail) == 0 {
			// A → A derives nothing; the alternative is dropped.
			continue
		}
		alphas = append(alphas, tail)
	}

	fresh := b.mintNonTerminal(prod.lhs)
	alphas = expandAlphas(prod.lhs, alphas, betas)

	if len(betas) == 0 {
		prod.alts = [][]Token{{fresh}}
	} else {
		alts := make([][]Token, 0, len(betas))
		for _, beta := range betas {
			alts = append(alts, appendToken(beta, fresh))
		}
		prod.alts = alts
	}

	for _, alpha := range alphas {
		b.prods.append(fresh, appendToken(alpha, fresh))
	}
	b.prods.append(fresh, []Token{TokenEmpty})
}

// expandAlphas substitutes the β alternatives for the occurrences of lhs
// that remain inside the α tails. An α that still mentions lhs expands into
// one alternative per β; an α free of lhs is kept as is.
func expandAlphas(lhs Token, alphas, betas [][]Token) [][]Token {
	mentions := false
	for _, alpha := range alphas {
		if containsToken(alpha, lhs) {
			mentions = true
			break
		}
	}
	if !mentions {
		return alphas
	}

	var expanded [][]Token
	for _, alpha := range alphas {
		if !containsToken(alpha, lhs) {
			expanded = append(expanded, alpha)
			continue
		}
		for _, beta := range betas {
			expanded = append(expanded, substituteToken(alpha, lhs, beta))
		}
	}
	return expanded
}

func containsToken(seq []Token, t Token) bool {
	for _, s := range seq {
		if s == t {
			return true
		}
	}
	return false
}

// substituteToken replaces every occurrence of target in seq with repl,
// splicing repl in and dropping its ε member.
func substituteToken(seq []Token, target Token, repl []Token) []Token {
	out := make([]Token, 0, len(seq)+len(repl))
	for _, s := range seq {
		if s != target {
			out = append(out, s)
			continue
		}
		for _, r := range repl {
			if !r.IsEmpty() {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return []Token{TokenEmpty}
	}
	return out
}

// appendToken appends t to a copy of seq, dropping the ε member seq may
// consist of.
func appendToken(seq []Token, t Token) []Token {
	out := make([]Token, 0, len(seq)+1)
	for _, s := range seq {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return append(out, t)
}

// checkIndirectLeftRecursion walks the leads-with relation between
// non-terminals after the direct elimination has converged. A cycle means
// the grammar is indirectly left-recursive, which the rewrite does not
// handle.
func (b *Builder) checkIndirectLeftRecursion() error {
	leads := map[Token][]Token{}
	for _, prod := range b.prods.productions() {
		for _, alt := range prod.alts {
			if alt[0].IsNonTerminal() {
				leads[prod.lhs] = append(leads[prod.lhs], alt[0])
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := map[Token]int{}
	var walk func(n Token) bool
	walk = func(n Token) bool {
		state[n] = visiting
		for _, next := range leads[n] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if walk(next) {
					return true
				}
			}
		}
		state[n] = visited
		return false
	}
	for _, n := range b.nonTerminals.Tokens() {
		if state[n] != unvisited {
			continue
		}
		if walk(n) {
			return fmt.Errorf("%w: %v", ErrIndirectLeftRecursion, b.TokenName(n))
		}
	}
	return nil
}
