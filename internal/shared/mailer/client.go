package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Resend邮件API基础地址
const defaultBaseURL = "https://api.resend.com"

// =============================================================================
// Client — Resend邮件发送客户端
// 提供通用发送接口，可被行动项、邀请、发票通知等模块共用
// =============================================================================

// Config 邮件客户端配置
type Config struct {
	APIKey  string
	From    string // 发件人，如 "BDI Portal <cpfr@bdibusinessportal.com>"
	BaseURL string // 留空使用官方地址，测试时可指向mock服务
}

// Client 邮件客户端
type Client struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

// New 创建邮件客户端实例
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Message 一封待发送的邮件
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send 发送邮件
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		msg.From = c.from
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("收件人不能为空")
	}

	bodyBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化邮件请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/emails", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("创建邮件请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求邮件服务失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取邮件服务响应失败: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		}
		if jerr := json.Unmarshal(respBody, &apiErr); jerr == nil && apiErr.Message != "" {
			return fmt.Errorf("邮件服务错误[%d]: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("邮件服务错误[%d]", resp.StatusCode)
	}

	return nil
}
