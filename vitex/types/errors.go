package types

import "fmt"

// ValidationError 本地参数校验错误。
// 在发起任何网络请求之前就地产生，永远不会被重试。
type ValidationError struct {
	Field string
	Value any
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("参数 %s 非法: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("参数 %s 非法 [%v]: %s", e.Field, e.Value, e.Msg)
}

// AuthError 认证失败（签名为空或凭据缺失），对应的请求不会被提交。
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return "认证失败: " + e.Msg
}

// ExchangeError 交易所返回的业务错误（响应信封 code != 0）。
// Msg 原样透传，仅"订单已终结"一类文案会被改写为固定的可读文本。
type ExchangeError struct {
	Code int
	Msg  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("交易所错误 code=%d: %s", e.Code, e.Msg)
}
