package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/pkg/config"
	"github.com/vitexbot/govitex/pkg/logger"
	"github.com/vitexbot/govitex/pkg/persistence"
	"github.com/vitexbot/govitex/pkg/secretstore"
	"github.com/vitexbot/govitex/vitex/client"
)

// lastOrder 最近一次真实下单的记录，给 -cancel-last 用
type lastOrder struct {
	Symbol   string    `json:"symbol"`
	OrderID  string    `json:"order_id"`
	Side     string    `json:"side"`
	Amount   string    `json:"amount"`
	Price    string    `json:"price"`
	PlacedAt time.Time `json:"placed_at"`
}

func lastOrderStore(cfg *config.Config) persistence.Store {
	return persistence.NewJSONFileService(cfg.Trader.StateDir).NewStore("trader", "orders", "last")
}

func main() {
	// 读 .env（尽力而为），没有就用真实环境变量
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "", "配置文件路径（支持 .yaml, .yml, .json）")
		symbol     = flag.String("symbol", "", "交易对，例如 VX_BTC-000（缺省取配置）")
		side       = flag.String("side", "", "方向：buy 或 sell")
		amount     = flag.String("amount", "", "下单数量")
		price      = flag.String("price", "", "下单价格")
		test       = flag.Bool("test", false, "走测试接口，不产生真实成交")
		cancelID   = flag.String("cancel", "", "按订单号撤单")
		cancelAll  = flag.Bool("cancel-all", false, "撤销该交易对全部挂单")
		cancelLast = flag.Bool("cancel-last", false, "撤销本工具最近一次真实下的单")
		ping       = flag.Bool("ping", false, "只做连通性检查")
	)
	flag.Parse()

	if *configPath != "" {
		config.SetConfigPath(*configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	key, secret := resolveCredentials(cfg)

	c := client.New(client.Options{
		BaseURL: cfg.Exchange.BaseURL,
		Key:     key,
		Secret:  secret,
		Timeout: time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
		Verbose: cfg.Exchange.Verbose,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *ping {
		if err := c.TestConnection(ctx); err != nil {
			logrus.Fatalf("连通性检查失败: %v", err)
		}
		return
	}

	// -cancel-last 的交易对取自记录，其余操作需要 -symbol 或配置缺省
	pair := strings.TrimSpace(*symbol)
	if pair == "" {
		pair = cfg.Trader.DefaultSymbol
	}
	mustPair := func() string {
		if pair == "" {
			logrus.Fatal("未指定交易对：传 -symbol 或在配置里设置 trader.default_symbol")
		}
		return pair
	}

	switch {
	case *cancelLast:
		runCancelLast(ctx, c, lastOrderStore(cfg))
	case *cancelAll:
		runCancelAll(ctx, c, mustPair())
	case *cancelID != "":
		runCancel(ctx, c, mustPair(), *cancelID)
	default:
		testMode := *test || cfg.Trader.TestMode
		runPlace(ctx, c, mustPair(), *side, *amount, *price, testMode, lastOrderStore(cfg))
	}
}

// resolveCredentials 凭证优先级：配置/环境变量 > secretstore
func resolveCredentials(cfg *config.Config) (string, string) {
	key, secret := cfg.Exchange.Key, cfg.Exchange.Secret
	if key != "" && secret != "" {
		return key, secret
	}

	path := strings.TrimSpace(cfg.SecretStore.Path)
	if path == "" {
		return key, secret
	}
	if _, err := os.Stat(path); err != nil {
		return key, secret
	}

	encKey, err := secretstore.ParseKey(os.Getenv("VITEX_SECRET_KEY"))
	if err != nil {
		logrus.Warnf("解析 VITEX_SECRET_KEY 失败: %v", err)
		return key, secret
	}
	ss, err := secretstore.Open(secretstore.OpenOptions{Path: path, EncryptionKey: encKey, ReadOnly: true})
	if err != nil {
		logrus.Warnf("打开 secretstore 失败: %v", err)
		return key, secret
	}
	defer ss.Close()

	creds, err := ss.LoadCredentials()
	if err != nil {
		logrus.Warnf("读取凭证失败: %v", err)
		return key, secret
	}
	if key == "" {
		key = creds.Key
	}
	if secret == "" {
		secret = creds.Secret
	}
	return key, secret
}

func runPlace(ctx context.Context, c *client.Client, pair, side, amount, price string, test bool, store persistence.Store) {
	if strings.TrimSpace(side) == "" || strings.TrimSpace(amount) == "" || strings.TrimSpace(price) == "" {
		logrus.Fatal("下单需要 -side、-amount、-price")
	}

	order, err := c.PrepareOrder(ctx, pair, side, amount, price)
	if err != nil {
		logrus.Fatalf("构造订单失败: %v", err)
	}
	logrus.Infof("订单已按精度归一: %s %s 数量=%s 价格=%s",
		order.Pair().Symbol, order.Side(), order.AmountText(), order.PriceText())

	if test {
		err = c.TestOrder(ctx, order)
	} else {
		err = c.ExecuteOrder(ctx, order)
	}
	if err != nil {
		logrus.Errorf("下单失败: %v", err)
		if reason := order.RejectReason(); reason != "" {
			logrus.Errorf("拒绝原因: %s", reason)
		}
		os.Exit(1)
	}

	// 只记录拿到订单号的真实下单，测试单撤不了
	if !test && order.OrderID() != "" {
		rec := lastOrder{
			Symbol:   order.Pair().Symbol,
			OrderID:  order.OrderID(),
			Side:     order.Side().String(),
			Amount:   order.AmountText(),
			Price:    order.PriceText(),
			PlacedAt: time.Now(),
		}
		if err := store.Save(rec); err != nil {
			logrus.Warnf("记录最近订单失败: %v", err)
		}
	}

	fmt.Printf("state: %s\n", order.State())
	if id := order.OrderID(); id != "" {
		fmt.Printf("order_id: %s\n", id)
	}
	if label := order.StatusLabel(); label != "" {
		fmt.Printf("status: %s\n", label)
	}
}

func runCancelLast(ctx context.Context, c *client.Client, store persistence.Store) {
	var rec lastOrder
	if err := store.Load(&rec); err != nil {
		if err == persistence.ErrNotExists {
			logrus.Fatal("没有最近下单记录（只有成功的真实下单会被记录）")
		}
		logrus.Fatalf("读取最近下单记录失败: %v", err)
	}

	logrus.Infof("撤销最近订单: %s %s 数量=%s 价格=%s（%s）",
		rec.Symbol, rec.Side, rec.Amount, rec.Price, rec.PlacedAt.Format(time.RFC3339))
	runCancel(ctx, c, rec.Symbol, rec.OrderID)
}

func runCancel(ctx context.Context, c *client.Client, pair, orderID string) {
	hist, err := c.CancelOrder(ctx, pair, orderID)
	if err != nil {
		logrus.Fatalf("撤单失败: %v", err)
	}
	fmt.Printf("order_id: %s\n", hist.OrderID())
	if status, ok := hist.Meta["status"].(string); ok {
		fmt.Printf("status: %s\n", status)
	}
}

func runCancelAll(ctx context.Context, c *client.Client, pair string) {
	orders, err := c.CancelAllOrders(ctx, pair)
	if err != nil {
		logrus.Fatalf("撤销全部挂单失败: %v", err)
	}
	if len(orders) == 0 {
		fmt.Println("没有可撤的挂单")
		return
	}
	for _, o := range orders {
		status, _ := o.Meta["status"].(string)
		fmt.Printf("order_id: %s status: %s\n", o.OrderID(), status)
	}
}
