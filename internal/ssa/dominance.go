package ssa

// dfsFrame is one level of an explicit depth-first-search stack, standing in for the
// call frame a recursive post-order walk would otherwise use.
type dfsFrame struct {
	blk      *basicBlock
	nextSucc int
}

// reachablePostOrder walks the CFG from the entry block and returns the blocks in
// reverse post-order, assigning each block's reversePostOrder field along the way.
// Blocks unreachable from the entry are never visited and so never appear.
func (b *builder) reachablePostOrder() []*basicBlock {
	entry := b.entryBlk()
	b.clearBlkVisited()

	postOrder := b.blkStack[:0]
	frames := append(b.blkStack2[:0], dfsFrame{blk: entry})
	b.blkVisited[entry] = 0

	for len(frames) > 0 {
		top := &frames[len(frames)-1]

		if top.nextSucc == 0 && SSAValidationEnabled {
			top.blk.validate(b)
		}

		var advanced bool
		for top.nextSucc < len(top.blk.success) {
			succ := top.blk.success[top.nextSucc]
			top.nextSucc++
			if succ.ReturnBlock() {
				continue
			}
			if _, seen := b.blkVisited[succ]; seen {
				continue
			}
			b.blkVisited[succ] = 0
			frames = append(frames, dfsFrame{blk: succ})
			advanced = true
			break
		}
		if advanced {
			continue
		}

		postOrder = append(postOrder, top.blk)
		frames = frames[:len(frames)-1]
	}

	b.blkStack2 = frames[:0]
	b.blkStack = postOrder[:0]

	reversePostOrder := make([]*basicBlock, len(postOrder))
	for i, blk := range postOrder {
		j := len(postOrder) - 1 - i
		reversePostOrder[j] = blk
		blk.reversePostOrder = j
	}
	return reversePostOrder
}

// computeImmediateDominators runs the Cooper/Harvey/Kennedy dominance fixpoint over
// blocks ordered by reachablePostOrder, filling in the per-block immediate dominator
// into doms (indexed by BasicBlockID). doms must be pre-sized to cover every block ID.
//
// https://www.cs.rice.edu/~keith/EMBED/dom.pdf
func computeImmediateDominators(order []*basicBlock, doms []*basicBlock) {
	entry, rest := order[0], order[1:]
	for _, blk := range rest {
		doms[blk.id] = nil
	}
	doms[entry.id] = entry

	for changed := true; changed; {
		changed = false
		for _, blk := range rest {
			newIdom := firstResolvedPred(blk, doms)
			if newIdom == nil {
				continue
			}
			for i := range blk.preds {
				pred := blk.preds[i].blk
				if pred == newIdom || doms[pred.id] == nil {
					continue
				}
				newIdom = commonDominator(doms, newIdom, pred)
			}
			if doms[blk.id] != newIdom {
				doms[blk.id] = newIdom
				changed = true
			}
		}
	}
}

// firstResolvedPred returns blk's first predecessor that already has a dominator
// assigned, or nil if none has been resolved yet in this fixpoint pass.
func firstResolvedPred(blk *basicBlock, doms []*basicBlock) *basicBlock {
	for i := range blk.preds {
		if pred := blk.preds[i].blk; doms[pred.id] != nil {
			return pred
		}
	}
	return nil
}

// commonDominator walks two blocks up the partially-built dominator tree until their
// paths converge, using reverse-post-order position as the height comparator.
func commonDominator(doms []*basicBlock, a, b *basicBlock) *basicBlock {
	for a != b {
		for a.reversePostOrder > b.reversePostOrder {
			a = doms[a.id]
		}
		for b.reversePostOrder > a.reversePostOrder {
			b = doms[b.id]
		}
	}
	return a
}

// calculateDominators computes the reachable reverse-post-order and immediate
// dominators for the function currently held by b, storing both on the builder for
// later queries via isDominatedBy.
func (b *builder) calculateDominators() {
	order := b.reachablePostOrder()

	need := b.basicBlocksPool.Allocated()
	if cap(b.dominators) < need {
		b.dominators = make([]*basicBlock, need)
	} else {
		b.dominators = b.dominators[:need]
	}
	computeImmediateDominators(order, b.dominators)

	b.reversePostOrderedBasicBlocks = order
}
