package sigchan

// Chan 非阻塞的信号 channel，只通知事件发生，不传递数据。
// 缓冲满时 Emit 直接丢弃，信号可合并。
type Chan struct {
	c chan struct{}
}

func New(bufferSize int) *Chan {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Chan{
		c: make(chan struct{}, bufferSize),
	}
}

// Emit 发送信号，缓冲满时不阻塞
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C 返回用于 select 的接收端
func (c *Chan) C() <-chan struct{} {
	return c.c
}
