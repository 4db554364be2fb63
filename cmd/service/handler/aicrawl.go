package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
)

func (s *HttpSrv) CrawlHello(c *gin.Context) {
	response.APIMessage(c, "新增成功")
}

type ScreenshotRequest struct {
	URL      string `json:"url"`
	FullPage bool   `json:"fullPage"`
}

func (s *HttpSrv) TakeScreenshot(c *gin.Context) {
	var req ScreenshotRequest
	if !bindJSON(c, &req) {
		return
	}
	shot, err := v1.NewAICrawlLogic(c, s.Core).Screenshot(req.URL, req.FullPage)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{
		"msg":  "截屏成功",
		"data": shot,
	})
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

func (s *HttpSrv) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := v1.NewAICrawlLogic(c, s.Core).Scrape(req.URL)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, page)
}

func (s *HttpSrv) Extract(c *gin.Context) {
	var req v1.ExtractRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := v1.NewAICrawlLogic(c, s.Core).Extract(req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
