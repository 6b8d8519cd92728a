package client

import (
	"errors"
	"testing"

	"github.com/vitexbot/govitex/vitex/types"
)

func TestClassifyDataWins(t *testing.T) {
	body := []byte(`{"code":0,"msg":"ok","data":{"orderId":"x"}}`)
	data, err := classify(body, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"orderId":"x"}` {
		t.Fatalf("data got=%s want=%s", data, `{"orderId":"x"}`)
	}
}

func TestClassifyMsgFallback(t *testing.T) {
	body := []byte(`{"code":0,"msg":"operation succeeded"}`)
	data, err := classify(body, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"operation succeeded"` {
		t.Fatalf("msg got=%s want=%s", data, `"operation succeeded"`)
	}
}

func TestClassifyExchangeError(t *testing.T) {
	body := []byte(`{"code":1001,"msg":"order price out of range","data":null}`)
	data, err := classify(body, nil)
	if err == nil {
		t.Fatalf("非零 code 应返回错误，data=%s", data)
	}
	var exErr *types.ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("错误类型应为 ExchangeError，got %T", err)
	}
	if exErr.Code != 1001 {
		t.Errorf("code got=%d want=1001", exErr.Code)
	}
	if exErr.Msg != "order price out of range" {
		t.Errorf("msg got=%q", exErr.Msg)
	}
}

// "已终结"文案必须改写为固定可读文本，其余 msg 原样透传
func TestClassifyTerminatedRewrite(t *testing.T) {
	body := []byte(`{"code":1,"msg":"err: The order status has been terminated (height 12)"}`)
	_, err := classify(body, nil)
	var exErr *types.ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("错误类型应为 ExchangeError，got %T", err)
	}
	if exErr.Msg != "Order already canceled" {
		t.Errorf("msg got=%q want=%q", exErr.Msg, "Order already canceled")
	}
}

func TestClassifyPassthrough(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"裸列表", `[1,2,3]`},
		{"裸数字", `6.849`},
		{"裸字符串", `"pong"`},
		{"无关对象", `{"foo":1}`},
		{"非法 JSON 对象", `{broken`},
		{"code 为 0 但无 data 无 msg", `{"code":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := classify([]byte(tc.body), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tc.body {
				t.Fatalf("应原样返回: got=%s want=%s", data, tc.body)
			}
		})
	}
}

func TestClassifyEmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, {}, []byte("  \n")} {
		data, err := classify(body, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data != nil {
			t.Fatalf("空响应应返回 nil，got=%s", data)
		}
	}
}

func TestClassifyDataNullFallsToMsg(t *testing.T) {
	body := []byte(`{"code":0,"msg":"done","data":null}`)
	data, err := classify(body, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"done"` {
		t.Fatalf("got=%s want=%s", data, `"done"`)
	}
}

// 回显回调只观察原始响应，绝不改变分类结果
func TestClassifyEchoDoesNotAlterResult(t *testing.T) {
	body := []byte(`{"code":0,"data":{"orderId":"x"},"msg":"ok"}`)

	quiet, quietErr := classify(body, nil)

	var echoed []byte
	calls := 0
	verbose, verboseErr := classify(body, func(raw []byte) {
		calls++
		echoed = raw
	})

	if calls != 1 {
		t.Fatalf("回显调用次数 got=%d want=1", calls)
	}
	if string(echoed) != string(body) {
		t.Errorf("回显内容应为原始响应: got=%s", echoed)
	}
	if (quietErr == nil) != (verboseErr == nil) {
		t.Fatalf("回显不应改变错误结果: %v vs %v", quietErr, verboseErr)
	}
	if string(quiet) != string(verbose) {
		t.Fatalf("回显不应改变数据结果: %s vs %s", quiet, verbose)
	}
}
