package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/pkg/config"
	"github.com/vitexbot/govitex/vitex/client"
	"github.com/vitexbot/govitex/vitex/types"
)

var (
	// 样式定义
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")) // 绿色

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")) // 红色

	bidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	askStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// marketRow 单个交易对的展示行
type marketRow struct {
	Symbol    string
	Last      string
	ChangePct float64
	High      string
	Low       string
	Quantity  string
	Bid       string
	BidQty    string
	Ask       string
	AskQty    string
}

// model 是应用程序的状态
type model struct {
	client   *client.Client
	symbols  []string
	interval time.Duration

	rows       []marketRow
	lastUpdate time.Time
	fetching   bool
	err        error
}

// tickMsg 定时器消息
type tickMsg time.Time

// marketsMsg 行情更新消息
type marketsMsg []marketRow

func initialModel(c *client.Client, symbols []string, interval time.Duration) model {
	return model{
		client:   c,
		symbols:  symbols,
		interval: interval,
		fetching: true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		fetchCmd(m.client, m.symbols),
		tickCmd(m.interval),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			if !m.fetching {
				m.fetching = true
				return m, fetchCmd(m.client, m.symbols)
			}
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.interval)}
		if !m.fetching {
			m.fetching = true
			cmds = append(cmds, fetchCmd(m.client, m.symbols))
		}
		return m, tea.Batch(cmds...)

	case marketsMsg:
		m.rows = msg
		m.lastUpdate = time.Now()
		m.fetching = false
		m.err = nil
		return m, nil

	case error:
		// 失败保留上次数据，下个 tick 重试
		m.err = msg
		m.fetching = false
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	status := "等待数据..."
	if !m.lastUpdate.IsZero() {
		status = fmt.Sprintf("更新于 %s 前", time.Since(m.lastUpdate).Round(time.Second))
	}
	if m.fetching {
		status += " · 刷新中"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("ViteX 行情 | %d 个交易对 | %s", len(m.symbols), status)))
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(downStyle.Render(fmt.Sprintf("错误: %v", m.err)))
		s.WriteString("\n\n")
	}

	if len(m.rows) > 0 {
		s.WriteString(borderStyle.Render(renderTable(m.rows)))
		s.WriteString("\n\n")
	}

	s.WriteString(dimStyle.Render("按 q 退出，r 手动刷新"))
	return s.String()
}

func renderTable(rows []marketRow) string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("%-20s %14s %9s %14s %14s %14s %14s\n",
		"交易对", "最新价", "24h涨跌", "买一", "买一量", "卖一", "卖一量"))

	for _, r := range rows {
		change := fmt.Sprintf("%+.2f%%", r.ChangePct*100)
		if r.ChangePct >= 0 {
			change = upStyle.Render(change)
		} else {
			change = downStyle.Render(change)
		}
		s.WriteString(fmt.Sprintf("%-20s %14s %9s %14s %14s %14s %14s\n",
			r.Symbol,
			trunc(r.Last, 14),
			change,
			bidStyle.Render(trunc(r.Bid, 14)),
			trunc(r.BidQty, 14),
			askStyle.Render(trunc(r.Ask, 14)),
			trunc(r.AskQty, 14)))
	}
	return s.String()
}

func trunc(s string, n int) string {
	if s == "" {
		return "--"
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Commands

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchCmd(c *client.Client, symbols []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		tickers, err := c.GetTickers(ctx, symbols...)
		if err != nil {
			return err
		}
		bySymbol := map[string]types.TickerStats{}
		for _, tk := range tickers {
			bySymbol[tk.Symbol] = tk
		}

		rows := make([]marketRow, 0, len(symbols))
		for _, symbol := range symbols {
			row := marketRow{Symbol: symbol}
			if tk, ok := bySymbol[symbol]; ok {
				row.Last = tk.ClosePrice
				row.ChangePct = tk.PriceChangePercent
				row.High = tk.HighPrice
				row.Low = tk.LowPrice
				row.Quantity = tk.Quantity
			}
			// 盘口逐对拉取，单对失败不影响整屏
			if book, err := c.GetBookTicker(ctx, symbol); err == nil {
				row.Bid = book.BidPrice
				row.BidQty = book.BidQuantity
				row.Ask = book.AskPrice
				row.AskQty = book.AskQuantity
			}
			rows = append(rows, row)
		}
		return marketsMsg(rows)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "", "配置文件路径（支持 .yaml, .yml, .json）")
		symbolsArg = flag.String("symbols", "", "交易对列表（逗号分隔，覆盖配置）")
		intervalS  = flag.Int("interval", 3, "刷新间隔（秒）")
	)
	flag.Parse()

	if *configPath != "" {
		config.SetConfigPath(*configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	symbols := cfg.MarketHub.Symbols
	if strings.TrimSpace(*symbolsArg) != "" {
		symbols = nil
		for _, s := range strings.Split(*symbolsArg, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	if len(symbols) == 0 {
		symbols = []string{"VX_BTC-000"}
	}

	// 重定向 logrus 输出到文件，避免干扰 TUI
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logDir = os.TempDir()
	}
	logFile := filepath.Join(logDir, "price-watcher-tui.log")
	if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
		logrus.SetOutput(file)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   true, // 写文件不要颜色
		})
	}

	c := client.New(client.Options{
		BaseURL: cfg.Exchange.BaseURL,
		Timeout: time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
	})

	interval := time.Duration(*intervalS) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}

	p := tea.NewProgram(initialModel(c, symbols, interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("运行程序失败: %v", err)
	}
}
