package dispenser

import "fmt"

// Outcome 转换表对 (状态, 操作) 的判定结果
type Outcome struct {
	Next     State        // 目标状态，拒绝时等于当前状态
	Delta    int          // 库存变化量
	Accepted bool         // 是否接受
	Reason   RejectReason // 拒绝原因
}

func accept(next State, delta int) Outcome {
	return Outcome{Next: next, Delta: delta, Accepted: true}
}

func reject(current State, reason RejectReason) Outcome {
	return Outcome{Next: current, Reason: reason}
}

// Transition 纯函数转换表，对所有合法 (State, Operation) 组合都有定义。
// inventory 为操作前库存，仅 TokenHeld+Dispense 需要用它区分 NoToken 与 Depleted。
// 库存为0时出货被拒绝（MachineDepleted），状态保持 TokenHeld，调用方仍可退币。
// 非法的枚举值属于程序缺陷，直接panic。
func Transition(s State, op Operation, inventory int) Outcome {
	if !op.valid() {
		panic(fmt.Sprintf("dispenser: unknown operation %s", op))
	}

	switch s {
	case NoToken:
		switch op {
		case InsertToken:
			return accept(TokenHeld, 0)
		case EjectToken, Dispense:
			return reject(NoToken, NoTokenPresent)
		}

	case TokenHeld:
		switch op {
		case InsertToken:
			return reject(TokenHeld, AlreadyHasToken)
		case EjectToken:
			return accept(NoToken, 0)
		case Dispense:
			if inventory <= 0 {
				return reject(TokenHeld, MachineDepleted)
			}
			if inventory-1 > 0 {
				return accept(NoToken, -1)
			}
			return accept(Depleted, -1)
		}

	case Depleted:
		return reject(Depleted, MachineDepleted)
	}

	panic(fmt.Sprintf("dispenser: unknown state %s", s))
}
