package world

type strahlerFrame struct {
	pos    int
	from   int    // direction of the downstream cell
	dirs   [2]int // upstream children
	n      int
	next   int
	orders [2]int
}

// walkRivers visits every river tree from its mouth in post-order, records
// each cell's downstream direction and its Strahler order. When keep is set
// it is asked about each upstream edge before the child is visited and may
// cut or adjust it.
func (c *GenerationContext) walkRivers(keep func(parent, child, dir int) bool) error {
	g := c.grid
	clear(c.util)
	clear(c.strahler)
	var stack []strahlerFrame

	push := func(pos, from int) error {
		if c.util[pos] != 0 {
			return invariantf("river cycle through cell %d", pos)
		}
		c.util[pos] = 1
		c.flow[pos] = int8(from)
		f := strahlerFrame{pos: pos, from: from}
		for dir := 0; dir < numDirs; dir++ {
			if dir == from || c.river[pos]&(1<<dir) == 0 {
				continue
			}
			child := g.Neighbor(pos, dir)
			if c.river[child] == 0 {
				return invariantf("river cell %d drains in two directions", pos)
			}
			if keep != nil && !keep(pos, child, dir) {
				continue
			}
			if f.n == 2 {
				return invariantf("river cell %d has more than two upstream edges", pos)
			}
			f.dirs[f.n] = dir
			f.n++
		}
		stack = append(stack, f)
		return nil
	}

	for pos := range c.river {
		if c.river[pos] == 0 {
			continue
		}
		root := noFlow
		for dir := 0; dir < numDirs; dir++ {
			if c.river[pos]&(1<<dir) == 0 || c.river[g.Neighbor(pos, dir)] != 0 {
				continue
			}
			if root != noFlow {
				return invariantf("river cell %d drains in two directions", pos)
			}
			root = dir
		}
		if root == noFlow {
			continue
		}

		if err := push(pos, root); err != nil {
			return err
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < top.n {
				dir := top.dirs[top.next]
				top.next++
				if err := push(g.Neighbor(top.pos, dir), Inverse(dir)); err != nil {
					return err
				}
				continue
			}
			s := 1
			switch top.n {
			case 1:
				s = top.orders[0]
			case 2:
				a, b := top.orders[0], top.orders[1]
				if a == b {
					s = a + 1
				} else {
					s = max(a, b)
				}
			}
			s = min(s, 255)
			c.strahler[top.pos] = uint8(s)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.orders[parent.next-1] = s
			}
		}
	}

	for pos := range c.river {
		if c.river[pos] != 0 && c.util[pos] == 0 {
			return invariantf("river cell %d is not connected to a mouth", pos)
		}
	}
	return nil
}

func (c *GenerationContext) computeStrahler() error {
	return c.walkRivers(nil)
}

// clearSubtree removes pos and everything upstream of it. The edge from the
// downstream cell must already be cut.
func (c *GenerationContext) clearSubtree(pos, from int) {
	g := c.grid
	type item struct{ pos, from int }
	todo := []item{{pos, from}}
	for len(todo) > 0 {
		it := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		bits := c.river[it.pos]
		for dir := 0; dir < numDirs; dir++ {
			if dir != it.from && bits&(1<<dir) != 0 {
				todo = append(todo, item{g.Neighbor(it.pos, dir), Inverse(dir)})
			}
		}
		c.river[it.pos] = 0
		c.strahler[it.pos] = 0
		c.flow[it.pos] = noFlow
	}
}

// pruneUphillRivers fixes rivers that mountain growth left flowing uphill:
// a step down of more than the grace margin cuts the upstream branch,
// smaller steps raise the upstream cell to its parent's height.
func (c *GenerationContext) pruneUphillRivers() error {
	ro := &c.opts.River
	if !ro.UphillPrune {
		return nil
	}
	grace := ro.UphillGrace
	return c.walkRivers(func(parent, child, dir int) bool {
		pe, ce := int(c.relev[parent]), int(c.relev[child])
		if ce >= pe {
			return true
		}
		if ce < pe-grace {
			c.river[parent] &^= 1 << dir
			c.clearSubtree(child, Inverse(dir))
			return false
		}
		c.relev[child] = c.relev[parent]
		return true
	})
}
