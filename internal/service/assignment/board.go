package assignment

import (
	"sort"
	"sync"
)

// Board keeps one workflow controller per order. A controller that is back
// to idle and held by nobody is forgotten, so the board only grows with the
// workflows actually in progress.
type Board struct {
	mu          sync.Mutex
	newFor      func(orderID int64) *Controller
	controllers map[int64]*slot
}

type slot struct {
	c     *Controller
	holds int
}

// NewBoard creates a board; newFor builds the controller of an order on first use.
func NewBoard(newFor func(orderID int64) *Controller) *Board {
	return &Board{newFor: newFor, controllers: make(map[int64]*slot)}
}

func (b *Board) slotLocked(orderID int64) *slot {
	s, ok := b.controllers[orderID]
	if !ok {
		c := b.newFor(orderID)
		c.mu.Lock()
		c.onSettled = func() { b.prune(orderID, c) }
		c.mu.Unlock()
		s = &slot{c: c}
		b.controllers[orderID] = s
	}
	return s
}

// Get returns the controller of orderID, creating it when needed. It stays
// on the board until it settles back to idle or is closed.
func (b *Board) Get(orderID int64) *Controller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slotLocked(orderID).c
}

// Acquire is Get for a caller that acts on the controller and then lets go.
// With create false a missing controller is reported instead of built. The
// controller is not forgotten while held; release drops it when it is idle.
func (b *Board) Acquire(orderID int64, create bool) (c *Controller, release func(), ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.controllers[orderID]
	if !ok {
		if !create {
			return nil, func() {}, false
		}
		s = b.slotLocked(orderID)
	}
	s.holds++
	var once sync.Once
	release = func() {
		once.Do(func() {
			b.mu.Lock()
			s.holds--
			b.mu.Unlock()
			b.prune(orderID, s.c)
		})
	}
	return s.c, release, true
}

// prune forgets c when it is still the controller of orderID, idle and unheld.
func (b *Board) prune(orderID int64, c *Controller) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.controllers[orderID]
	if !ok || s.c != c || s.holds > 0 {
		return
	}
	if c.State() == StateIdle {
		delete(b.controllers, orderID)
	}
}

// Lookup returns the controller of orderID if one exists.
func (b *Board) Lookup(orderID int64) (*Controller, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.controllers[orderID]
	if !ok {
		return nil, false
	}
	return s.c, true
}

// Len returns how many controllers the board holds.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.controllers)
}

// Close closes and forgets the controller of orderID.
func (b *Board) Close(orderID int64) {
	b.mu.Lock()
	s, ok := b.controllers[orderID]
	delete(b.controllers, orderID)
	b.mu.Unlock()
	if ok {
		s.c.Close()
	}
}

// CloseAll closes every controller, as on logout.
func (b *Board) CloseAll() {
	b.mu.Lock()
	all := b.controllers
	b.controllers = make(map[int64]*slot)
	b.mu.Unlock()
	for _, s := range all {
		s.c.Close()
	}
}

// Workflow is the state of one open controller.
type Workflow struct {
	OrderID int64  `json:"order_id"`
	State   string `json:"state"`
}

// Workflows lists the controllers past idle, ordered by order id.
func (b *Board) Workflows() []Workflow {
	b.mu.Lock()
	out := make([]Workflow, 0, len(b.controllers))
	for id, s := range b.controllers {
		if st := s.c.State(); st != StateIdle {
			out = append(out, Workflow{OrderID: id, State: st.String()})
		}
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}
