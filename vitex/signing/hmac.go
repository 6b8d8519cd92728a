package signing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// HMACSHA256Hex 以 secret 为密钥对 message 做 HMAC-SHA256，
// 返回小写十六进制摘要。
func HMACSHA256Hex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// TimeFunc 获取交易所服务器时间（毫秒）
type TimeFunc func(ctx context.Context) (int64, error)

// Signer 为私有接口请求附加认证三件套：key、服务器时间戳、HMAC 签名。
// 每次 Sign 都重新获取服务器时间（请求必须落在交易所的重放保护窗口内，
// 大约为服务器时间前 5 秒到后 1 秒）。
type Signer struct {
	Key    string
	Secret string

	// ServerTime 服务器时间源；获取失败时等待固定间隔后重试一次
	ServerTime TimeFunc

	// RetryWait 重试前的等待时长，零值为 1 秒
	RetryWait time.Duration
}

// SignedRequest 签名完成的请求。Signature 为空表示未认证，禁止提交。
// Params 含 key/timestamp 在内的全部参数；Encode 的输出即最终传输体，
// 下游不允许再改动。
type SignedRequest struct {
	Params    Params
	Signature string
}

// Authenticated 报告请求是否携带有效签名
func (r *SignedRequest) Authenticated() bool {
	return r.Signature != ""
}

// Encode 生成最终传输体：规范编码的参数，signature 追加在末尾
func (r *SignedRequest) Encode() string {
	return r.Params.Encode() + "&signature=" + url.QueryEscape(r.Signature)
}

// Sign 为参数集附加认证字段：
//  1. 获取服务器毫秒时间；失败后等待固定间隔重试一次，仍失败则返回错误；
//  2. 合并 {key, timestamp}，与调用方参数同名冲突时以认证字段为准；
//  3. 规范排序并编码，用 Secret 做 HMAC-SHA256，渲染为小写十六进制。
//
// Secret 为空（无法签名）时不报错，返回空签名；调用方必须把空签名
// 视为未认证请求，不得提交。
func (s *Signer) Sign(ctx context.Context, params Params) (*SignedRequest, error) {
	ts, err := s.fetchServerTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取服务器时间失败: %w", err)
	}

	merged := params.Clone()
	// 认证字段优先：调用方传入的同名参数被丢弃
	merged["key"] = s.Key
	merged["timestamp"] = strconv.FormatInt(ts, 10)

	req := &SignedRequest{Params: merged}
	if s.Secret == "" {
		return req, nil
	}
	req.Signature = HMACSHA256Hex(s.Secret, merged.Encode())
	return req, nil
}

func (s *Signer) fetchServerTime(ctx context.Context) (int64, error) {
	ts, err := s.ServerTime(ctx)
	if err == nil {
		return ts, nil
	}
	wait := s.RetryWait
	if wait <= 0 {
		wait = time.Second
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(wait):
	}
	return s.ServerTime(ctx)
}
