package dispenser

import (
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

// Machine 售货机控制器。
// 状态与库存由同一把互斥锁保护，二者总是一起提交。
type Machine struct {
	mu        sync.Mutex
	state     State
	inventory int
	dispensed uint64
	seq       uint64

	history   *history
	clock     clockwork.Clock
	log       *logger.Logger
	observers []Observer
}

// New 创建售货机，初始状态总是 NoToken
func New(inventory int, opts ...Option) (*Machine, error) {
	if inventory < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeInventory, inventory)
	}

	m := &Machine{
		state:     NoToken,
		inventory: inventory,
		clock:     clockwork.NewRealClock(),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MustNew 同 New，出错时panic
func MustNew(inventory int, opts ...Option) *Machine {
	m, err := New(inventory, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// InsertToken 投币
func (m *Machine) InsertToken() Result {
	return m.Apply(InsertToken)
}

// EjectToken 退币
func (m *Machine) EjectToken() Result {
	return m.Apply(EjectToken)
}

// Dispense 出货
func (m *Machine) Dispense() Result {
	return m.Apply(Dispense)
}

// Apply 执行操作并返回结果
func (m *Machine) Apply(op Operation) Result {
	from, r := m.commit(op)

	m.logResult(from, r)
	for _, o := range m.observers {
		o.OnResult(from, r)
	}
	return r
}

// commit 在锁内查表、校验并一次性提交新状态与库存
func (m *Machine) commit(op Operation) (State, Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.state
	out := Transition(from, op, m.inventory)

	next, inventory := m.state, m.inventory
	if out.Accepted {
		next, inventory = out.Next, m.inventory+out.Delta
	}
	checkInvariants(op, from, next, inventory)

	m.state, m.inventory = next, inventory
	if out.Accepted && out.Delta < 0 {
		m.dispensed += uint64(-out.Delta)
	}
	m.seq++

	r := Result{
		Operation: op,
		Accepted:  out.Accepted,
		Reason:    out.Reason,
		State:     m.state,
		Inventory: m.inventory,
		Seq:       m.seq,
	}

	if m.history != nil {
		m.history.add(Record{
			Seq:       r.Seq,
			Operation: op,
			From:      from,
			To:        r.State,
			Accepted:  r.Accepted,
			Reason:    r.Reason,
			Inventory: r.Inventory,
			At:        m.clock.Now(),
		})
	}
	return from, r
}

// checkInvariants 库存不得为负，Depleted 必须对应零库存
func checkInvariants(op Operation, from, to State, inventory int) {
	if inventory < 0 {
		panic(&InvariantError{Op: op, From: from, To: to, Inventory: inventory, Detail: "inventory underflow"})
	}
	if to == Depleted && inventory != 0 {
		panic(&InvariantError{Op: op, From: from, To: to, Inventory: inventory, Detail: "depleted with stock left"})
	}
	if from == Depleted && to != Depleted {
		panic(&InvariantError{Op: op, From: from, To: to, Inventory: inventory, Detail: "left terminal state"})
	}
}

func (m *Machine) logResult(from State, r Result) {
	fields := []logger.Field{
		logger.Uint64("seq", r.Seq),
		logger.Stringer("op", r.Operation),
		logger.Stringer("from", from),
		logger.Stringer("to", r.State),
		logger.Int("inventory", r.Inventory),
	}
	switch {
	case !r.Accepted:
		m.log.Debug("operation rejected", append(fields, logger.Stringer("reason", r.Reason))...)
	case r.State == Depleted:
		m.log.Info("machine depleted", fields...)
	default:
		m.log.Debug("operation accepted", fields...)
	}
}

// Can 当前状态下操作是否会被接受
func (m *Machine) Can(op Operation) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Transition(m.state, op, m.inventory).Accepted
}

// State 返回当前状态
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Inventory 返回当前库存
func (m *Machine) Inventory() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inventory
}

// Snapshot 返回状态与库存的一致视图
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:     m.state,
		Inventory: m.inventory,
		Dispensed: m.dispensed,
		Seq:       m.seq,
	}
}

// History 返回保留的操作记录，未启用时返回 nil
func (m *Machine) History() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.history == nil {
		return nil
	}
	return m.history.list()
}
