package dispenser

import "time"

// Result 一次操作的结果
type Result struct {
	Operation Operation
	Accepted  bool
	Reason    RejectReason // 接受时为 ReasonNone
	State     State        // 操作完成后的状态
	Inventory int          // 操作完成后的库存
	Seq       uint64       // 操作序号，从1开始
}

// Err 拒绝时返回对应哨兵错误，接受时返回 nil
func (r Result) Err() error {
	if r.Accepted {
		return nil
	}
	return r.Reason.Err()
}

// Snapshot 某一时刻状态与库存的一致视图
type Snapshot struct {
	State     State
	Inventory int
	Dispensed uint64 // 累计出货数
	Seq       uint64 // 已处理操作数
}

// Record 操作历史记录
type Record struct {
	Seq       uint64
	Operation Operation
	From      State
	To        State
	Accepted  bool
	Reason    RejectReason
	Inventory int
	At        time.Time
}

// Observer 操作完成后的回调，在锁外调用
type Observer interface {
	OnResult(from State, r Result)
}

// ObserverFunc 函数适配器
type ObserverFunc func(from State, r Result)

func (f ObserverFunc) OnResult(from State, r Result) {
	f(from, r)
}
