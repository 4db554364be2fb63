package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func configListOptions(c *gin.Context) types.ListSysConfigOptions {
	return types.ListSysConfigOptions{
		ConfigName: formOrQuery(c, "configName"),
		ConfigKey:  formOrQuery(c, "configKey"),
		ConfigType: formOrQuery(c, "configType"),
	}
}

func (s *HttpSrv) ListConfig(c *gin.Context) {
	list, total, err := v1.NewConfigLogic(c, s.Core).List(configListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportConfig(c *gin.Context) {
	list, _, err := v1.NewConfigLogic(c, s.Core).List(configListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "参数数据", list)
}

func (s *HttpSrv) GetConfig(c *gin.Context) {
	configID, err := pathID(c, "configId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	conf, err := v1.NewConfigLogic(c, s.Core).Get(configID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, conf)
}

// GetConfigByKey 返回 {msg: 参数值}
func (s *HttpSrv) GetConfigByKey(c *gin.Context) {
	value, err := v1.NewConfigLogic(c, s.Core).GetConfigByKey(c.Param("configKey"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIMessage(c, value)
}

func (s *HttpSrv) CreateConfig(c *gin.Context) {
	var req types.SysConfig
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewConfigLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateConfig(c *gin.Context) {
	var req types.SysConfig
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewConfigLogic(c, s.Core).Update(req))
}

func (s *HttpSrv) DeleteConfig(c *gin.Context) {
	ids, err := pathIDs(c, "configIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewConfigLogic(c, s.Core).Delete(ids))
}

func (s *HttpSrv) RefreshConfigCache(c *gin.Context) {
	response.APIToAjax(c, v1.NewConfigLogic(c, s.Core).RefreshCache())
}
