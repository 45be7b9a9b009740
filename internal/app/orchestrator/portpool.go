package orchestrator

// PortPool 管理可分配給 Session 的 Port。
// 一個 Port 只會處於「可用」或「已分配」其中一種狀態。
// PortPool 本身不是並行安全的，由 Orchestrator 的鎖保護。
type PortPool struct {
	first    int
	last     int
	free     []int // stack，尾端是下一個分配的 Port
	assigned map[int]struct{}
}

// NewPortPool 建立涵蓋 [first, last] 的 Port Pool，從最小的 Port 開始分配
func NewPortPool(first, last int) *PortPool {
	p := &PortPool{
		first:    first,
		last:     last,
		assigned: make(map[int]struct{}),
	}
	for port := last; port >= first; port-- {
		p.free = append(p.free, port)
	}
	return p
}

// Acquire 取出一個可用的 Port
//
// 回傳值:
//
//	int: 分配到的 Port
//	bool: Pool 已用盡時為 false
func (p *PortPool) Acquire() (int, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	port := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.assigned[port] = struct{}{}
	return port, true
}

// Release 歸還 Port，未分配或範圍外的 Port 會被忽略
func (p *PortPool) Release(port int) bool {
	if _, ok := p.assigned[port]; !ok {
		return false
	}
	delete(p.assigned, port)
	p.free = append(p.free, port)
	return true
}

// Demote 歸還 Port 並放到 stack 底部，下次分配會先取其他可用的 Port
// 用於綁定失敗的 Port (可能被其他程序占用)。
func (p *PortPool) Demote(port int) bool {
	if _, ok := p.assigned[port]; !ok {
		return false
	}
	delete(p.assigned, port)
	p.free = append([]int{port}, p.free...)
	return true
}

// Available 回傳可用的 Port 數
func (p *PortPool) Available() int {
	return len(p.free)
}

// Assigned 回傳已分配的 Port 數
func (p *PortPool) Assigned() int {
	return len(p.assigned)
}

// Size 回傳 Pool 的總容量
func (p *PortPool) Size() int {
	if p.last < p.first {
		return 0
	}
	return p.last - p.first + 1
}
