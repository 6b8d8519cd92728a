package markethub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/internal/metrics"
	"github.com/vitexbot/govitex/pkg/sigchan"
	"github.com/vitexbot/govitex/pkg/syncgroup"
	"github.com/vitexbot/govitex/vitex/types"
)

var hubLog = logrus.WithField("component", "markethub")

// MarketSource 收集器依赖的行情接口，生产环境由 vitex client 实现
type MarketSource interface {
	GetTickers(ctx context.Context, symbols ...string) ([]types.TickerStats, error)
	GetBookTicker(ctx context.Context, symbol string) (*types.BookTicker, error)
}

// Collector 周期性拉取配置交易对的行情并落库
type Collector struct {
	store    *Store
	source   MarketSource
	symbols  []string
	interval time.Duration

	bgCancel func()
	sg       *syncgroup.SyncGroup
	kick     *sigchan.Chan
}

func NewCollector(store *Store, source MarketSource, symbols []string, interval time.Duration) *Collector {
	return &Collector{
		store:    store,
		source:   source,
		symbols:  symbols,
		interval: interval,
		sg:       syncgroup.NewSyncGroup(),
		kick:     sigchan.New(1),
	}
}

func (c *Collector) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Start 启动后台采集循环，重复调用是空操作
func (c *Collector) Start() {
	if c.bgCancel != nil || c.interval <= 0 || len(c.symbols) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.bgCancel = cancel

	c.sg.Add(func() { c.loop(ctx) })
	c.sg.Run()
}

func (c *Collector) Stop() {
	if c.bgCancel != nil {
		c.bgCancel()
		c.sg.Wait()
		c.bgCancel = nil
	}
}

// Kick 请求尽快采集一轮，循环未启动时信号会留到下次 select
func (c *Collector) Kick() {
	c.kick.Emit()
}

func (c *Collector) loop(ctx context.Context) {
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		var trigger string
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			trigger = "scheduled"
		case <-c.kick.C():
			trigger = "kick"
		}

		runCtx, cancel := context.WithTimeout(ctx, c.interval)
		if _, err := c.CollectOnce(runCtx, trigger); err != nil {
			hubLog.Warnf("定时采集失败: %v", err)
		}
		cancel()
	}
}

// CollectOnce 执行一轮采集并返回 run ID。部分交易对失败不会中断整轮，
// 失败数记入 run 的 meta。
func (c *Collector) CollectOnce(ctx context.Context, trigger string) (string, error) {
	if len(c.symbols) == 0 {
		return "", errors.New("no symbols configured")
	}

	runID := uuid.NewString()
	meta, _ := json.Marshal(map[string]any{"trigger": trigger, "symbols": len(c.symbols)})
	metaStr := string(meta)
	if err := c.store.insertRunStart(ctx, runID, &metaStr); err != nil {
		return "", err
	}
	metrics.CollectRuns.Add(1)

	now := time.Now()
	okCount, errCount := 0, 0

	// 24h 行情一次批量拉取，盘口逐对拉取
	tickerBySymbol := map[string]types.TickerStats{}
	tickers, err := c.source.GetTickers(ctx, c.symbols...)
	if err != nil {
		hubLog.Warnf("拉取 24h 行情失败: %v", err)
	} else {
		for _, tk := range tickers {
			tickerBySymbol[tk.Symbol] = tk
		}
	}

	for _, symbol := range c.symbols {
		select {
		case <-ctx.Done():
			msg := ctx.Err().Error()
			_ = c.finishCollect(runID, false, &msg, trigger, okCount, errCount)
			metrics.CollectErrors.Add(1)
			return runID, ctx.Err()
		default:
		}

		failed := false
		if tk, ok := tickerBySymbol[symbol]; ok {
			snap := TickerSnapshot{
				RunID:              runID,
				Symbol:             tk.Symbol,
				OpenPrice:          tk.OpenPrice,
				ClosePrice:         tk.ClosePrice,
				HighPrice:          tk.HighPrice,
				LowPrice:           tk.LowPrice,
				PriceChange:        tk.PriceChange,
				PriceChangePercent: tk.PriceChangePercent,
				Quantity:           tk.Quantity,
				Amount:             tk.Amount,
				TS:                 now,
			}
			if err := c.store.insertTickerSnapshot(ctx, snap); err != nil {
				hubLog.Warnf("写入行情快照失败 %s: %v", symbol, err)
				metrics.SnapshotErrors.Add(1)
				failed = true
			} else {
				metrics.SnapshotSaves.Add(1)
			}
		} else {
			failed = true
		}

		book, err := c.source.GetBookTicker(ctx, symbol)
		if err != nil {
			hubLog.Warnf("拉取盘口失败 %s: %v", symbol, err)
			failed = true
		} else {
			snap := BookSnapshot{
				RunID:       runID,
				Symbol:      book.Symbol,
				BidPrice:    book.BidPrice,
				BidQuantity: book.BidQuantity,
				AskPrice:    book.AskPrice,
				AskQuantity: book.AskQuantity,
				TS:          now,
			}
			if err := c.store.insertBookSnapshot(ctx, snap); err != nil {
				hubLog.Warnf("写入盘口快照失败 %s: %v", symbol, err)
				metrics.SnapshotErrors.Add(1)
				failed = true
			} else {
				metrics.SnapshotSaves.Add(1)
			}
		}

		if failed {
			errCount++
		} else {
			okCount++
		}
	}

	if errCount > 0 {
		metrics.CollectErrors.Add(1)
	}
	if err := c.finishCollect(runID, errCount == 0, nil, trigger, okCount, errCount); err != nil {
		return runID, err
	}
	hubLog.WithFields(logrus.Fields{
		"run_id":  runID,
		"trigger": trigger,
		"ok":      okCount,
		"err":     errCount,
	}).Info("采集完成")
	return runID, nil
}

func (c *Collector) finishCollect(runID string, ok bool, errMsg *string, trigger string, okCount, errCount int) error {
	// run 收尾写库不依赖采集用的 ctx，取消后也要落终态
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if errMsg == nil && errCount > 0 {
		msg := "some symbols failed"
		errMsg = &msg
	}
	meta, _ := json.Marshal(map[string]any{
		"trigger": trigger,
		"symbols": len(c.symbols),
		"ok":      okCount,
		"err":     errCount,
	})
	metaStr := string(meta)
	return c.store.finishRun(ctx, runID, ok, errMsg, &metaStr)
}
