package signing

import (
	"net/url"
	"sort"
	"strings"
)

// Params 私有接口的请求参数集合
type Params map[string]string

// SortedKeys 返回按字节序严格升序排列的键。
// 纯函数，空集合返回空切片；重复应用结果不变。
func (p Params) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode 以规范顺序（键升序）做 URL 编码，形如 k1=v1&k2=v2。
// 签名消息与请求体使用完全相同的编码结果。
func (p Params) Encode() string {
	keys := p.SortedKeys()
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// Clone 浅拷贝参数集合
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
