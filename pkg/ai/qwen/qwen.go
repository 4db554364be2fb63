package qwen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

const (
	NAME = "qwen"

	DefaultBaseURL     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel       = "qwen3-max"
	DefaultTemperature = 0.7

	UnknownPublishTime = "未知"
	NoLink             = "无"
)

type Driver struct {
	client      *openai.Client
	model       string
	temperature float32
}

func New(token, baseURL, model string, temperature float32) *Driver {
	cfg := openai.DefaultConfig(token)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL

	if model == "" {
		model = DefaultModel
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	return &Driver{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

func (s *Driver) Model() string {
	return s.model
}

func (s *Driver) Chat(ctx context.Context, system, prompt string) (string, error) {
	slog.Debug("Chat", slog.String("driver", NAME), slog.String("model", s.model))
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to request %s chat completion, %w", NAME, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned empty choices", NAME)
	}
	return resp.Choices[0].Message.Content, nil
}

type SectionItem struct {
	Title         string `json:"title"`
	PublishTime   string `json:"publish_time"`
	Link          string `json:"link"`
	DetailContent string `json:"detail_content,omitempty"`
}

type SectionResult struct {
	Status string        `json:"status"`
	Data   []SectionItem `json:"data"`
}

// ParseError 模型输出无法解析为 JSON
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return "JSON解析失败: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const extractSystemPrompt = "你是一个网页信息提取助手，只输出合法的 JSON，不要输出任何解释。"

const extractPromptTpl = `请从下面的 Markdown 内容中找到「%s」栏目，提取该栏目下的所有条目。
每个条目包含标题(title)、发布时间(publish_time, 无法确定时填"未知")、链接(link, 没有链接时填"无")。
链接如果是相对路径请保持原样。
按如下 JSON 格式返回:
{"status": "success", "data": [{"title": "", "publish_time": "", "link": ""}]}

Markdown 内容:
%s`

// ExtractSection 让模型从 markdown 中抽取指定栏目下的条目列表
func (s *Driver) ExtractSection(ctx context.Context, markdown, sectionTitle string) (*SectionResult, error) {
	raw, err := s.Chat(ctx, extractSystemPrompt, fmt.Sprintf(extractPromptTpl, sectionTitle, markdown))
	if err != nil {
		return nil, err
	}
	return ParseSectionResult(raw)
}

func ParseSectionResult(raw string) (*SectionResult, error) {
	var res SectionResult
	if err := json.Unmarshal([]byte(trimCodeFence(raw)), &res); err != nil {
		return nil, &ParseError{Err: err, Raw: raw}
	}
	if res.Status == "" {
		res.Status = "success"
	}
	for i := range res.Data {
		if res.Data[i].PublishTime == "" {
			res.Data[i].PublishTime = UnknownPublishTime
		}
		if res.Data[i].Link == "" {
			res.Data[i].Link = NoLink
		}
	}
	return &res, nil
}

// trimCodeFence 去掉模型习惯性包裹的 ```json 代码块
func trimCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// FilterByKeywords 标题包含任一关键词(忽略大小写)的条目, 关键词为空时全部保留
func FilterByKeywords(items []SectionItem, keywords []string) []SectionItem {
	keywords = lo.Filter(lo.Map(keywords, func(k string, _ int) string {
		return strings.ToLower(strings.TrimSpace(k))
	}), func(k string, _ int) bool {
		return k != ""
	})
	if len(keywords) == 0 {
		return items
	}
	return lo.Filter(items, func(item SectionItem, _ int) bool {
		title := strings.ToLower(item.Title)
		return lo.SomeBy(keywords, func(k string) bool {
			return strings.Contains(title, k)
		})
	})
}

// HasLink 模型用"无"表示没有链接
func (i SectionItem) HasLink() bool {
	return i.Link != "" && i.Link != NoLink
}
