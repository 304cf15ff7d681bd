// Package transcript 将售货机操作结果渲染为可读文本
package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
)

// Message 返回操作结果对应的提示语
func Message(r dispenser.Result) string {
	if !r.Accepted {
		switch r.Reason {
		case dispenser.AlreadyHasToken:
			return "token already inserted"
		case dispenser.NoTokenPresent:
			if r.Operation == dispenser.EjectToken {
				return "no token to return"
			}
			return "insert a token first"
		case dispenser.MachineDepleted:
			return "machine is empty"
		}
		return "operation rejected"
	}

	switch r.Operation {
	case dispenser.InsertToken:
		return "token inserted"
	case dispenser.EjectToken:
		return "token returned"
	case dispenser.Dispense:
		if r.State == dispenser.Depleted {
			return "unit dispensed, machine is now empty"
		}
		return "unit dispensed"
	}
	return "operation accepted"
}

// Line 单行记录：序号、操作、结果、状态、库存
func Line(r dispenser.Result) string {
	verdict := "ok"
	if !r.Accepted {
		verdict = "rejected(" + r.Reason.String() + ")"
	}
	return fmt.Sprintf("#%d %-11s %-26s %-9s inventory=%d  %s",
		r.Seq, r.Operation, verdict, r.State, r.Inventory, Message(r))
}

// Summary 最终状态汇总
func Summary(s dispenser.Snapshot) string {
	return fmt.Sprintf("state=%s inventory=%d dispensed=%d operations=%d",
		s.State, s.Inventory, s.Dispensed, s.Seq)
}

// Table 输出完整转换表，inventory 用于计算出货后的目标状态
func Table(w io.Writer, inventory int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s", "state")
	for _, op := range dispenser.Operations() {
		fmt.Fprintf(&b, " | %-28s", op)
	}
	b.WriteString("\n")

	for _, s := range dispenser.States() {
		fmt.Fprintf(&b, "%-10s", s)
		for _, op := range dispenser.Operations() {
			fmt.Fprintf(&b, " | %-28s", cell(dispenser.Transition(s, op, inventory)))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cell(o dispenser.Outcome) string {
	if !o.Accepted {
		return "rejected: " + o.Reason.String()
	}
	if o.Delta != 0 {
		return fmt.Sprintf("-> %s (%+d)", o.Next, o.Delta)
	}
	return "-> " + o.Next.String()
}

// History 渲染历史记录
func History(w io.Writer, records []dispenser.Record) error {
	for _, rec := range records {
		verdict := "ok"
		if !rec.Accepted {
			verdict = rec.Reason.String()
		}
		if _, err := fmt.Fprintf(w, "%s #%d %s %s -> %s %s inventory=%d\n",
			rec.At.Format("15:04:05.000"), rec.Seq, rec.Operation, rec.From, rec.To, verdict, rec.Inventory); err != nil {
			return err
		}
	}
	return nil
}
