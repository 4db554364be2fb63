package qwen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionResult(t *testing.T) {
	res, err := ParseSectionResult("```json\n{\"status\":\"success\",\"data\":[{\"title\":\"新展开幕\",\"link\":\"/news/1\"},{\"title\":\"闭馆通知\",\"publish_time\":\"2024-05-01\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, UnknownPublishTime, res.Data[0].PublishTime)
	assert.Equal(t, NoLink, res.Data[1].Link)
	assert.True(t, res.Data[0].HasLink())
	assert.False(t, res.Data[1].HasLink())

	_, err = ParseSectionResult("not json")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "not json", perr.Raw)
	assert.Contains(t, err.Error(), "JSON解析失败")
}

func TestFilterByKeywords(t *testing.T) {
	items := []SectionItem{{Title: "青铜器特展开幕"}, {Title: "Museum Night"}, {Title: "闭馆通知"}}

	assert.Len(t, FilterByKeywords(items, nil), 3)
	assert.Len(t, FilterByKeywords(items, []string{" ", ""}), 3)

	res := FilterByKeywords(items, []string{"特展", "museum"})
	require.Len(t, res, 2)
	assert.Equal(t, "Museum Night", res[1].Title)
}

func TestExtractSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Contains(t, req.Messages[1].Content, "「新闻动态」")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: `{"status":"success","data":[{"title":"新展预告","publish_time":"2024-06-01","link":"https://m.example.com/1"}]}`,
				},
			}},
		})
	}))
	defer srv.Close()

	d := New("test-token", srv.URL, "", 0)
	res, err := d.ExtractSection(context.Background(), "# 新闻动态\n- [新展预告](https://m.example.com/1)", "新闻动态")
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "新展预告", res.Data[0].Title)
}
