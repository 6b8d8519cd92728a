package syncgroup

import "sync"

// SyncGroup 包装 sync.WaitGroup，把 Add/Done 配对交给框架，避免漏 Done。
// 先 Add 再 Run，Run 启动全部已加入的函数并清空列表。
type SyncGroup struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	fns []func()
}

func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// Add 登记一个待启动的函数
func (g *SyncGroup) Add(fn func()) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fns = append(g.fns, fn)
}

// Run 为每个已登记的函数启动 goroutine
func (g *SyncGroup) Run() {
	g.mu.Lock()
	fns := g.fns
	g.fns = nil
	g.mu.Unlock()

	for _, fn := range fns {
		g.wg.Add(1)
		go func(do func()) {
			defer g.wg.Done()
			do()
		}(fn)
	}
}

// Wait 阻塞到所有已启动的 goroutine 退出
func (g *SyncGroup) Wait() {
	g.wg.Wait()
}
