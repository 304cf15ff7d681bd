package dispenser

// history 固定容量的环形历史记录
type history struct {
	records []Record
	next    int
	full    bool
}

func newHistory(limit int) *history {
	if limit <= 0 {
		return nil
	}
	return &history{records: make([]Record, limit)}
}

func (h *history) add(r Record) {
	h.records[h.next] = r
	h.next++
	if h.next == len(h.records) {
		h.next = 0
		h.full = true
	}
}

// list 按时间顺序返回副本
func (h *history) list() []Record {
	if !h.full {
		return append([]Record(nil), h.records[:h.next]...)
	}
	out := make([]Record, 0, len(h.records))
	out = append(out, h.records[h.next:]...)
	return append(out, h.records[:h.next]...)
}
