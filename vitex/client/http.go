package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// HTTP 调试输出默认关闭（开启方式：设置环境变量 GOVITEX_HTTP_DEBUG=1）
var httpDebug = os.Getenv("GOVITEX_HTTP_DEBUG") != ""

// httpClient HTTP 客户端封装。
// 底层 resty 不配置任何自动重试：除签名时服务器时间获取的那一次
// 固定重试外，所有网络失败都直接向调用方传播。
type httpClient struct {
	rc   *resty.Client
	host string
}

func newHTTPClient(host string, timeout time.Duration) *httpClient {
	host = strings.TrimSuffix(host, "/")
	rc := resty.New().
		SetBaseURL(host).
		SetTimeout(timeout).
		SetHeader("User-Agent", "govitex").
		SetHeader("Accept", "*/*")
	return &httpClient{rc: rc, host: host}
}

// get 执行 GET 请求，返回原始响应体
func (h *httpClient) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	r := h.rc.R().SetContext(ctx)
	if len(params) > 0 {
		r.SetQueryParams(params)
	}
	if httpDebug {
		fmt.Printf("[HTTP DEBUG] GET %s%s params=%v\n", h.host, endpoint, params)
	}
	resp, err := r.Get(endpoint)
	return h.handle(resp, err)
}

// postForm 执行 POST 请求，body 为已按规范顺序编码好的表单体，
// 原样传输，不做任何改写
func (h *httpClient) postForm(ctx context.Context, endpoint string, body string) ([]byte, error) {
	if httpDebug {
		fmt.Printf("[HTTP DEBUG] POST %s%s body=%s\n", h.host, endpoint, body)
	}
	resp, err := h.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(body).
		Post(endpoint)
	return h.handle(resp, err)
}

// deleteForm 执行 DELETE 请求，body 语义同 postForm
func (h *httpClient) deleteForm(ctx context.Context, endpoint string, body string) ([]byte, error) {
	if httpDebug {
		fmt.Printf("[HTTP DEBUG] DELETE %s%s body=%s\n", h.host, endpoint, body)
	}
	resp, err := h.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(body).
		Delete(endpoint)
	return h.handle(resp, err)
}

func (h *httpClient) handle(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, errors.Wrap(err, "请求失败")
	}
	if httpDebug {
		fmt.Printf("[HTTP DEBUG] %s %s -> %d (耗时 %v)\n",
			resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, errors.Errorf("HTTP 错误 %d: %s", resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}
