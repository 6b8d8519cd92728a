package client

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/vitexbot/govitex/vitex/types"
)

// 交易所"订单已终结"文案片段与改写后的固定可读文本。
// 这是错误文案上唯一的一处归一化，其余 msg 原样透传。
const (
	terminatedMsgFragment = "The order status has been terminated"
	alreadyCanceledMsg    = "Order already canceled"
)

// classify 归一化响应信封 {code, data, msg}：
//   - code 为 0 且 data 非空：返回 data；
//   - code 为 0、无 data 而有 msg：返回 msg（JSON 字符串形式）；
//   - code 非 0：返回 *types.ExchangeError（含"已终结"文案改写）；
//   - 响应不是信封（裸列表/数字/无关对象）：原样返回。
//
// echo 非空时先回显原始响应再分类，不得改变分类结果。
func classify(body []byte, echo func(raw []byte)) (json.RawMessage, error) {
	if echo != nil {
		echo(body)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '{' {
		// 裸值（列表、数字、字符串）原样返回
		return json.RawMessage(trimmed), nil
	}

	var env struct {
		Code *int            `json:"code"`
		Msg  *string         `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return json.RawMessage(trimmed), nil
	}
	if env.Code == nil && env.Msg == nil && len(env.Data) == 0 {
		// 与信封无关的普通对象，原样返回
		return json.RawMessage(trimmed), nil
	}

	code := 0
	if env.Code != nil {
		code = *env.Code
	}
	if code != 0 {
		msg := ""
		if env.Msg != nil {
			msg = *env.Msg
		}
		if strings.Contains(msg, terminatedMsgFragment) {
			msg = alreadyCanceledMsg
		}
		return nil, &types.ExchangeError{Code: code, Msg: msg}
	}

	if len(env.Data) > 0 && !bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return env.Data, nil
	}
	if env.Msg != nil && *env.Msg != "" {
		quoted, err := json.Marshal(*env.Msg)
		if err != nil {
			return json.RawMessage(trimmed), nil
		}
		return quoted, nil
	}
	// code 为 0 但既无 data 也无 msg：返回原信封
	return json.RawMessage(trimmed), nil
}
