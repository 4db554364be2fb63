package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func dictTypeListOptions(c *gin.Context) types.ListSysDictTypeOptions {
	return types.ListSysDictTypeOptions{
		DictName: formOrQuery(c, "dictName"),
		DictType: formOrQuery(c, "dictType"),
		Status:   formOrQuery(c, "status"),
	}
}

func (s *HttpSrv) ListDictType(c *gin.Context) {
	list, total, err := v1.NewDictLogic(c, s.Core).ListTypes(dictTypeListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportDictType(c *gin.Context) {
	list, _, err := v1.NewDictLogic(c, s.Core).ListTypes(dictTypeListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "字典类型", list)
}

func (s *HttpSrv) GetDictType(c *gin.Context) {
	dictID, err := pathID(c, "dictId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	dt, err := v1.NewDictLogic(c, s.Core).GetType(dictID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, dt)
}

func (s *HttpSrv) DictTypeOptionSelect(c *gin.Context) {
	list, err := v1.NewDictLogic(c, s.Core).OptionSelect()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) CreateDictType(c *gin.Context) {
	var req types.SysDictType
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).CreateType(req))
}

func (s *HttpSrv) UpdateDictType(c *gin.Context) {
	var req types.SysDictType
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).UpdateType(req))
}

func (s *HttpSrv) DeleteDictType(c *gin.Context) {
	ids, err := pathIDs(c, "dictIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).DeleteTypes(ids))
}

func (s *HttpSrv) RefreshDictCache(c *gin.Context) {
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).RefreshCache())
}

func dictDataListOptions(c *gin.Context) types.ListSysDictDataOptions {
	return types.ListSysDictDataOptions{
		DictType:  formOrQuery(c, "dictType"),
		DictLabel: formOrQuery(c, "dictLabel"),
		Status:    formOrQuery(c, "status"),
	}
}

func (s *HttpSrv) ListDictData(c *gin.Context) {
	list, total, err := v1.NewDictLogic(c, s.Core).ListData(dictDataListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportDictData(c *gin.Context) {
	list, _, err := v1.NewDictLogic(c, s.Core).ListData(dictDataListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "字典数据", list)
}

func (s *HttpSrv) GetDictData(c *gin.Context) {
	dictCode, err := pathID(c, "dictCode")
	if err != nil {
		response.APIError(c, err)
		return
	}
	data, err := v1.NewDictLogic(c, s.Core).GetData(dictCode)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) GetDictDataByType(c *gin.Context) {
	list, err := v1.NewDictLogic(c, s.Core).GetDataByType(c.Param("dictType"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	if list == nil {
		list = []types.SysDictData{}
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) CreateDictData(c *gin.Context) {
	var req types.SysDictData
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).CreateData(req))
}

func (s *HttpSrv) UpdateDictData(c *gin.Context) {
	var req types.SysDictData
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).UpdateData(req))
}

func (s *HttpSrv) DeleteDictData(c *gin.Context) {
	ids, err := pathIDs(c, "dictCodes")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewDictLogic(c, s.Core).DeleteData(ids))
}
