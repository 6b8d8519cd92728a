package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/internal/markethub"
	"github.com/vitexbot/govitex/internal/metrics"
	"github.com/vitexbot/govitex/pkg/config"
	"github.com/vitexbot/govitex/pkg/logger"
	"github.com/vitexbot/govitex/pkg/shutdown"
	"github.com/vitexbot/govitex/vitex/client"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "", "配置文件路径（支持 .yaml, .yml, .json）")
		listenAddr = flag.String("listen", "", "HTTP 监听地址（覆盖配置）")
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
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "配置非法: %v\n", err)
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

	if len(cfg.MarketHub.Symbols) == 0 {
		logrus.Fatal("markethub.symbols 为空：至少配置一个交易对")
	}

	// 行情采集只用公共接口，不需要凭证
	c := client.New(client.Options{
		BaseURL: cfg.Exchange.BaseURL,
		Timeout: time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
		Verbose: cfg.Exchange.Verbose,
	})

	store, err := markethub.OpenStore(cfg.MarketHub.DatabasePath)
	if err != nil {
		logrus.Fatalf("打开快照库失败: %v", err)
	}

	interval := time.Duration(cfg.MarketHub.SnapshotIntervalSeconds) * time.Second
	collector := markethub.NewCollector(store, c, cfg.MarketHub.Symbols, interval)
	collector.Start()
	collector.Kick() // 启动即采一轮，不等第一个周期

	listen := cfg.MarketHub.Listen
	if *listenAddr != "" {
		listen = *listenAddr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           markethub.NewServer(store, collector).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("markethub 监听 %s，采集 %d 个交易对，间隔 %s",
			listen, len(cfg.MarketHub.Symbols), interval)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("HTTP 服务错误: %v", err)
		}
	}()

	// 调试端口（expvar 计数器 + pprof），默认不开
	debugCtx, debugCancel := context.WithCancel(context.Background())
	defer debugCancel()
	if addr := cfg.MarketHub.DebugListen; addr != "" {
		if _, err := metrics.StartAsync(debugCtx, addr); err != nil {
			logrus.Warnf("调试服务启动失败: %v", err)
		} else {
			logrus.Infof("调试服务监听 %s（/debug/vars, /debug/pprof）", addr)
		}
	}

	mgr := shutdown.NewManager()
	mgr.OnShutdown(func(ctx context.Context) { _ = httpSrv.Shutdown(ctx) })
	mgr.OnShutdown(func(ctx context.Context) { collector.Stop() })

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mgr.Shutdown(ctx)
	_ = store.Close()

	fmt.Println("markethub stopped")
}
