package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func logininforListOptions(c *gin.Context) types.ListSysLogininforOptions {
	return types.ListSysLogininforOptions{
		Ipaddr:   formOrQuery(c, "ipaddr"),
		UserName: formOrQuery(c, "userName"),
		Status:   formOrQuery(c, "status"),
	}
}

func (s *HttpSrv) ListLogininfor(c *gin.Context) {
	list, total, err := v1.NewLogininforLogic(c, s.Core).List(logininforListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportLogininfor(c *gin.Context) {
	list, _, err := v1.NewLogininforLogic(c, s.Core).List(logininforListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "登录日志", list)
}

func (s *HttpSrv) DeleteLogininfor(c *gin.Context) {
	ids, err := pathIDs(c, "infoIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewLogininforLogic(c, s.Core).Delete(ids))
}

func (s *HttpSrv) CleanLogininfor(c *gin.Context) {
	response.APIToAjax(c, v1.NewLogininforLogic(c, s.Core).Clean())
}

func (s *HttpSrv) UnlockLogininfor(c *gin.Context) {
	response.APIToAjax(c, v1.NewLogininforLogic(c, s.Core).Unlock(c.Param("userName")))
}

// operLogListOptions businessTypes 支持多选, 兼容单值 businessType
func operLogListOptions(c *gin.Context) types.ListSysOperLogOptions {
	raw := c.QueryArray("businessTypes")
	if len(raw) == 0 {
		if v := formOrQuery(c, "businessType"); v != "" {
			raw = []string{v}
		}
	}
	businessTypes := lo.FilterMap(raw, func(v string, _ int) (int, bool) {
		i, err := cast.ToIntE(v)
		return i, err == nil
	})
	return types.ListSysOperLogOptions{
		Title:         formOrQuery(c, "title"),
		OperName:      formOrQuery(c, "operName"),
		BusinessTypes: businessTypes,
		Status:        paramIntPtr(c, "status"),
		OperIP:        formOrQuery(c, "operIp"),
	}
}

func (s *HttpSrv) ListOperLog(c *gin.Context) {
	list, total, err := v1.NewOperLogLogic(c, s.Core).List(operLogListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportOperLog(c *gin.Context) {
	list, _, err := v1.NewOperLogLogic(c, s.Core).List(operLogListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "操作日志", list)
}

func (s *HttpSrv) GetOperLog(c *gin.Context) {
	operID, err := pathID(c, "operId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	log, err := v1.NewOperLogLogic(c, s.Core).Get(operID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, log)
}

func (s *HttpSrv) DeleteOperLog(c *gin.Context) {
	ids, err := pathIDs(c, "operIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewOperLogLogic(c, s.Core).Delete(ids))
}

func (s *HttpSrv) CleanOperLog(c *gin.Context) {
	response.APIToAjax(c, v1.NewOperLogLogic(c, s.Core).Clean())
}

// ListOnline 在线用户不走分页查询, 一次性返回
func (s *HttpSrv) ListOnline(c *gin.Context) {
	list, err := v1.NewOnlineLogic(c, s.Core).List(c.Query("ipaddr"), c.Query("userName"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, int64(len(list)))
}

func (s *HttpSrv) ForceLogout(c *gin.Context) {
	response.APIToAjax(c, v1.NewOnlineLogic(c, s.Core).ForceLogout(c.Param("tokenId")))
}

func (s *HttpSrv) CacheInfo(c *gin.Context) {
	info, err := v1.NewCacheLogic(c, s.Core).Info()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, info)
}

func (s *HttpSrv) CacheNames(c *gin.Context) {
	response.APISuccess(c, v1.NewCacheLogic(c, s.Core).Names())
}

func (s *HttpSrv) CacheKeys(c *gin.Context) {
	keys, err := v1.NewCacheLogic(c, s.Core).Keys(c.Param("cacheName"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, keys)
}

func (s *HttpSrv) CacheValue(c *gin.Context) {
	val, err := v1.NewCacheLogic(c, s.Core).Value(c.Param("cacheName"), c.Param("cacheKey"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, val)
}

func (s *HttpSrv) ClearCacheName(c *gin.Context) {
	response.APIToAjax(c, v1.NewCacheLogic(c, s.Core).ClearName(c.Param("cacheName")))
}

func (s *HttpSrv) ClearCacheKey(c *gin.Context) {
	response.APIToAjax(c, v1.NewCacheLogic(c, s.Core).ClearKey(c.Param("cacheKey")))
}

func (s *HttpSrv) ClearCacheAll(c *gin.Context) {
	response.APIToAjax(c, v1.NewCacheLogic(c, s.Core).ClearAll())
}

func (s *HttpSrv) ServerInfo(c *gin.Context) {
	info, err := v1.NewServerLogic(c, s.Core).Info()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, info)
}
