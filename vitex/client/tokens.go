package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitexbot/govitex/vitex/types"
)

// TokenQuery 币种列表查询条件
type TokenQuery struct {
	Category        string // quote / all
	TokenSymbolLike string // 符号模糊匹配
	Offset          int
	Limit           int
}

// GetAllTokens 查询币种列表
func (c *Client) GetAllTokens(ctx context.Context, q *TokenQuery) ([]types.Token, error) {
	params := map[string]string{}
	if q != nil {
		if q.Category != "" {
			params["category"] = q.Category
		}
		if q.TokenSymbolLike != "" {
			params["tokenSymbolLike"] = q.TokenSymbolLike
		}
		if q.Offset > 0 {
			params["offset"] = strconv.Itoa(q.Offset)
		}
		if q.Limit > 0 {
			params["limit"] = strconv.Itoa(q.Limit)
		}
	}

	var tokens []types.Token
	if err := c.getJSON(ctx, EndpointTokens, params, &tokens); err != nil {
		return nil, fmt.Errorf("查询币种列表失败: %w", err)
	}
	return tokens, nil
}

// GetToken 查询单个币种详情。
// 带 '-' 的入参按带序号的符号（如 BTC-000）查询，否则按链上币种 ID 查询。
func (c *Client) GetToken(ctx context.Context, symbolOrID string) (*types.TokenDetail, error) {
	params := map[string]string{}
	if strings.Contains(symbolOrID, "-") {
		params["tokenSymbol"] = symbolOrID
	} else {
		params["tokenId"] = symbolOrID
	}

	var detail types.TokenDetail
	if err := c.getJSON(ctx, EndpointTokenDetail, params, &detail); err != nil {
		return nil, fmt.Errorf("查询币种 %s 失败: %w", symbolOrID, err)
	}
	return &detail, nil
}

// GetListedTokens 查询已在指定计价币种市场开通交易的币种
func (c *Client) GetListedTokens(ctx context.Context, quoteTokenSymbol string) ([]types.MappedToken, error) {
	params := map[string]string{"quoteTokenSymbol": quoteTokenSymbol}

	var tokens []types.MappedToken
	if err := c.getJSON(ctx, EndpointTokensMapped, params, &tokens); err != nil {
		return nil, fmt.Errorf("查询已上市币种失败: %w", err)
	}
	return tokens, nil
}

// GetUnlistedTokens 查询尚未在指定计价币种市场开通交易的币种
func (c *Client) GetUnlistedTokens(ctx context.Context, quoteTokenSymbol string) ([]types.MappedToken, error) {
	params := map[string]string{"quoteTokenSymbol": quoteTokenSymbol}

	var tokens []types.MappedToken
	if err := c.getJSON(ctx, EndpointTokensUnmapped, params, &tokens); err != nil {
		return nil, fmt.Errorf("查询未上市币种失败: %w", err)
	}
	return tokens, nil
}
