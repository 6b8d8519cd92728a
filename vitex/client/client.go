package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/pkg/cache"
	"github.com/vitexbot/govitex/vitex/signing"
	"github.com/vitexbot/govitex/vitex/types"
)

var cLog = logrus.WithField("component", "vitex-client")

// DefaultBaseURL ViteX 公网 API 地址
const DefaultBaseURL = "https://api.vitex.net"

// precisionTTL 精度缓存有效期。交易对精度几乎不变，缓存只是省掉重复查询。
const precisionTTL = 10 * time.Minute

// Options 客户端配置
type Options struct {
	// BaseURL 交易所地址，零值为 DefaultBaseURL
	BaseURL string

	// Key / Secret 交易凭据。只用公共行情接口可以都留空；
	// Secret 为空时签名为空字符串，交易请求会以未签名被拒绝。
	Key    string
	Secret string

	// Timeout 单次请求超时，零值为 30 秒
	Timeout time.Duration

	// Verbose 分类前回显原始响应（诊断用，不影响返回值）
	Verbose bool
}

// Client ViteX HTTP API 客户端：公共行情 + 签名交易。
// 每个操作都是同步阻塞的，实例可以并发使用；
// 并发调用签名操作的超时风险见 Signer 的时间窗口说明。
type Client struct {
	opts      Options
	http      *httpClient
	signer    *signing.Signer
	precCache *cache.InMemoryCache[string, types.Precision]
}

// New 创建客户端
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	c := &Client{
		opts:      opts,
		http:      newHTTPClient(opts.BaseURL, opts.Timeout),
		precCache: cache.NewInMemoryCache[string, types.Precision](precisionTTL),
	}
	c.signer = &signing.Signer{
		Key:        opts.Key,
		Secret:     opts.Secret,
		ServerTime: c.GetServerTime,
	}
	return c
}

// BaseURL 客户端指向的交易所地址
func (c *Client) BaseURL() string {
	return c.http.host
}

// HasCredentials 是否配置了完整交易凭据
func (c *Client) HasCredentials() bool {
	return c.opts.Key != "" && c.opts.Secret != ""
}

func (c *Client) echoFn() func([]byte) {
	if !c.opts.Verbose {
		return nil
	}
	return func(raw []byte) {
		cLog.Infof("原始响应: %s", raw)
	}
}

// getJSON 执行 GET、分类信封并把成功数据解码到 out
func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]string, out any) error {
	body, err := c.http.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	data, err := classify(body, c.echoFn())
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析响应失败: %w, 数据: %s", err, data)
	}
	return nil
}

// GetServerTime 服务器时间（毫秒）。签名流程以此为时间源。
func (c *Client) GetServerTime(ctx context.Context) (int64, error) {
	var ts int64
	if err := c.getJSON(ctx, EndpointTime, nil, &ts); err != nil {
		return 0, err
	}
	return ts, nil
}

// TestConnection 探测交易所可达性并记录本地时钟偏差
func (c *Client) TestConnection(ctx context.Context) error {
	start := time.Now()
	ts, err := c.GetServerTime(ctx)
	if err != nil {
		return fmt.Errorf("交易所不可达: %w", err)
	}
	skew := time.Now().UnixMilli() - ts
	cLog.WithFields(logrus.Fields{
		"server_time": ts,
		"rtt":         time.Since(start).String(),
		"skew_ms":     skew,
	}).Info("交易所连接正常")
	return nil
}
