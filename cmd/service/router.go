package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/cmd/service/handler"
	"github.com/exb-museum/exb-admin/cmd/service/middleware"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetWxUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			claims, ok := v1.InjectWxClaims(c)
			if !ok {
				return key + ":" + c.ClientIP()
			}
			return key + ":" + claims.OpenID
		}, opts...)
	}
}

func GetCrawlLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, "aicrawl", func(c *gin.Context) string {
			return key
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	wxLimit := GetWxUserLimitBuilder(s.Core)
	crawlLimit := GetCrawlLimitBuilder(s.Core)

	perm := func(permission string) gin.HandlerFunc {
		return middleware.HasPermi(s.Core, permission)
	}
	oplog := func(title string, businessType types.BusinessType) gin.HandlerFunc {
		return middleware.OperLog(s.Core, title, businessType)
	}
	criterion := middleware.Criterion

	s.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local := s.Core.Cfg().ObjectStorage.Local; local != nil && local.Root != "" {
		s.Engine.Static(v1.RESOURCE_PREFIX, local.Root)
	}

	s.Engine.Use(response.NewResponse(), middleware.I18n())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.ClientInfo(), middleware.AcceptLanguage(), middleware.Metrics(s.Core))

	r := s.Engine.Group("")
	{
		r.GET("/captchaImage", ipLimit("captcha", core.WithLimit(30), core.WithRange(time.Minute)), s.CaptchaImage)
		r.POST("/login", ipLimit("login", core.WithLimit(10), core.WithRange(time.Minute)), s.Login)
		r.POST("/register", ipLimit("register", core.WithLimit(5), core.WithRange(time.Minute)), s.Register)
		r.POST("/logout", middleware.TryAuthorization(s.Core), s.Logout)
	}

	authed := s.Engine.Group("")
	authed.Use(middleware.Authorization(s.Core))
	{
		authed.GET("/getInfo", s.GetInfo)
		authed.GET("/getRouters", s.GetRouters)
	}

	common := authed.Group("/common")
	{
		common.GET("/download", s.Download)
		common.GET("/download/resource", s.DownloadResource)
		common.POST("/upload", s.Upload)
		common.POST("/uploads", s.Uploads)
	}

	system := authed.Group("/system")

	user := system.Group("/user")
	{
		profile := user.Group("/profile")
		{
			profile.GET("", s.GetProfile)
			profile.PUT("", oplog("个人信息", types.BUSINESS_UPDATE), s.UpdateProfile)
			profile.PUT("/updatePwd", oplog("个人信息", types.BUSINESS_UPDATE), s.UpdatePwd)
			profile.POST("/avatar", oplog("用户头像", types.BUSINESS_UPDATE), s.UpdateAvatar)
		}

		user.GET("/list", perm("system:user:list"), criterion(userRule), s.ListUser)
		user.POST("/export", perm("system:user:export"), criterion(userRule), oplog("用户管理", types.BUSINESS_EXPORT), s.ExportUser)
		user.POST("/importData", perm("system:user:import"), oplog("用户管理", types.BUSINESS_IMPORT), s.ImportUser)
		user.POST("/importTemplate", s.UserImportTemplate)
		user.GET("/", perm("system:user:query"), s.GetUser)
		user.GET("/:userId", perm("system:user:query"), s.GetUser)
		user.POST("", perm("system:user:add"), oplog("用户管理", types.BUSINESS_INSERT), s.CreateUser)
		user.PUT("", perm("system:user:edit"), oplog("用户管理", types.BUSINESS_UPDATE), s.UpdateUser)
		user.DELETE("/:userIds", perm("system:user:remove"), oplog("用户管理", types.BUSINESS_DELETE), s.DeleteUser)
		user.PUT("/resetPwd", perm("system:user:resetPwd"), oplog("用户管理", types.BUSINESS_UPDATE), s.ResetUserPwd)
		user.PUT("/changeStatus", perm("system:user:edit"), oplog("用户管理", types.BUSINESS_UPDATE), s.ChangeUserStatus)
		user.GET("/authRole/:userId", perm("system:user:query"), s.GetUserAuthRole)
		user.PUT("/authRole", perm("system:user:edit"), oplog("用户管理", types.BUSINESS_GRANT), s.InsertUserAuthRole)
		user.GET("/deptTree", perm("system:user:list"), s.UserDeptTree)
	}

	role := system.Group("/role")
	{
		role.GET("/list", perm("system:role:list"), criterion(roleRule), s.ListRole)
		role.POST("/export", perm("system:role:export"), criterion(roleRule), oplog("角色管理", types.BUSINESS_EXPORT), s.ExportRole)
		role.GET("/:roleId", perm("system:role:query"), s.GetRole)
		role.POST("", perm("system:role:add"), oplog("角色管理", types.BUSINESS_INSERT), s.CreateRole)
		role.PUT("", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_UPDATE), s.UpdateRole)
		role.PUT("/dataScope", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_UPDATE), s.UpdateRoleDataScope)
		role.PUT("/changeStatus", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_UPDATE), s.ChangeRoleStatus)
		role.DELETE("/:roleIds", perm("system:role:remove"), oplog("角色管理", types.BUSINESS_DELETE), s.DeleteRole)
		role.GET("/optionselect", perm("system:role:query"), s.RoleOptionSelect)
		role.GET("/authUser/allocatedList", perm("system:role:list"), criterion(authUserRule), s.AllocatedUserList)
		role.GET("/authUser/unallocatedList", perm("system:role:list"), criterion(authUserRule), s.UnallocatedUserList)
		role.PUT("/authUser/cancel", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_GRANT), s.CancelAuthUser)
		role.PUT("/authUser/cancelAll", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_GRANT), s.CancelAuthUserAll)
		role.PUT("/authUser/selectAll", perm("system:role:edit"), oplog("角色管理", types.BUSINESS_GRANT), s.SelectAuthUserAll)
		role.GET("/deptTree/:roleId", perm("system:role:query"), s.RoleDeptTree)
	}

	menu := system.Group("/menu")
	{
		menu.GET("/list", perm("system:menu:list"), s.ListMenu)
		menu.GET("/:menuId", perm("system:menu:query"), s.GetMenu)
		menu.GET("/treeselect", s.MenuTreeSelect)
		menu.GET("/roleMenuTreeselect/:roleId", s.RoleMenuTreeSelect)
		menu.POST("", perm("system:menu:add"), oplog("菜单管理", types.BUSINESS_INSERT), s.CreateMenu)
		menu.PUT("", perm("system:menu:edit"), oplog("菜单管理", types.BUSINESS_UPDATE), s.UpdateMenu)
		menu.DELETE("/:menuId", perm("system:menu:remove"), oplog("菜单管理", types.BUSINESS_DELETE), s.DeleteMenu)
	}

	dept := system.Group("/dept")
	{
		dept.GET("/list", perm("system:dept:list"), criterion(deptRule), s.ListDept)
		dept.GET("/list/exclude/:deptId", perm("system:dept:list"), s.ListDeptExclude)
		dept.GET("/:deptId", perm("system:dept:query"), s.GetDept)
		dept.POST("", perm("system:dept:add"), oplog("部门管理", types.BUSINESS_INSERT), s.CreateDept)
		dept.PUT("", perm("system:dept:edit"), oplog("部门管理", types.BUSINESS_UPDATE), s.UpdateDept)
		dept.DELETE("/:deptId", perm("system:dept:remove"), oplog("部门管理", types.BUSINESS_DELETE), s.DeleteDept)
	}

	post := system.Group("/post")
	{
		post.GET("/list", perm("system:post:list"), criterion(postRule), s.ListPost)
		post.POST("/export", perm("system:post:export"), criterion(postRule), oplog("岗位管理", types.BUSINESS_EXPORT), s.ExportPost)
		post.GET("/:postId", perm("system:post:query"), s.GetPost)
		post.GET("/optionselect", s.PostOptionSelect)
		post.POST("", perm("system:post:add"), oplog("岗位管理", types.BUSINESS_INSERT), s.CreatePost)
		post.PUT("", perm("system:post:edit"), oplog("岗位管理", types.BUSINESS_UPDATE), s.UpdatePost)
		post.DELETE("/:postIds", perm("system:post:remove"), oplog("岗位管理", types.BUSINESS_DELETE), s.DeletePost)
	}

	dictType := system.Group("/dict/type")
	{
		dictType.GET("/list", perm("system:dict:list"), criterion(dictTypeRule), s.ListDictType)
		dictType.POST("/export", perm("system:dict:export"), criterion(dictTypeRule), oplog("字典类型", types.BUSINESS_EXPORT), s.ExportDictType)
		dictType.GET("/:dictId", perm("system:dict:query"), s.GetDictType)
		dictType.GET("/optionselect", s.DictTypeOptionSelect)
		dictType.POST("", perm("system:dict:add"), oplog("字典类型", types.BUSINESS_INSERT), s.CreateDictType)
		dictType.PUT("", perm("system:dict:edit"), oplog("字典类型", types.BUSINESS_UPDATE), s.UpdateDictType)
		dictType.DELETE("/refreshCache", perm("system:dict:remove"), oplog("字典类型", types.BUSINESS_CLEAN), s.RefreshDictCache)
		dictType.DELETE("/:dictIds", perm("system:dict:remove"), oplog("字典类型", types.BUSINESS_DELETE), s.DeleteDictType)
	}

	dictData := system.Group("/dict/data")
	{
		dictData.GET("/list", perm("system:dict:list"), criterion(dictDataRule), s.ListDictData)
		dictData.POST("/export", perm("system:dict:export"), criterion(dictDataRule), oplog("字典数据", types.BUSINESS_EXPORT), s.ExportDictData)
		dictData.GET("/:dictCode", perm("system:dict:query"), s.GetDictData)
		dictData.GET("/type/:dictType", s.GetDictDataByType)
		dictData.POST("", perm("system:dict:add"), oplog("字典数据", types.BUSINESS_INSERT), s.CreateDictData)
		dictData.PUT("", perm("system:dict:edit"), oplog("字典数据", types.BUSINESS_UPDATE), s.UpdateDictData)
		dictData.DELETE("/:dictCodes", perm("system:dict:remove"), oplog("字典数据", types.BUSINESS_DELETE), s.DeleteDictData)
	}

	config := system.Group("/config")
	{
		config.GET("/list", perm("system:config:list"), criterion(configRule), s.ListConfig)
		config.POST("/export", perm("system:config:export"), criterion(configRule), oplog("参数管理", types.BUSINESS_EXPORT), s.ExportConfig)
		config.GET("/:configId", perm("system:config:query"), s.GetConfig)
		config.GET("/configKey/:configKey", s.GetConfigByKey)
		config.POST("", perm("system:config:add"), oplog("参数管理", types.BUSINESS_INSERT), s.CreateConfig)
		config.PUT("", perm("system:config:edit"), oplog("参数管理", types.BUSINESS_UPDATE), s.UpdateConfig)
		config.DELETE("/refreshCache", perm("system:config:remove"), oplog("参数管理", types.BUSINESS_CLEAN), s.RefreshConfigCache)
		config.DELETE("/:configIds", perm("system:config:remove"), oplog("参数管理", types.BUSINESS_DELETE), s.DeleteConfig)
	}

	notice := system.Group("/notice")
	{
		notice.GET("/list", perm("system:notice:list"), criterion(noticeRule), s.ListNotice)
		notice.GET("/:noticeId", perm("system:notice:query"), s.GetNotice)
		notice.POST("", perm("system:notice:add"), oplog("通知公告", types.BUSINESS_INSERT), s.CreateNotice)
		notice.PUT("", perm("system:notice:edit"), oplog("通知公告", types.BUSINESS_UPDATE), s.UpdateNotice)
		notice.DELETE("/:noticeIds", perm("system:notice:remove"), oplog("通知公告", types.BUSINESS_DELETE), s.DeleteNotice)
	}

	monitor := authed.Group("/monitor")

	logininfor := monitor.Group("/logininfor")
	{
		logininfor.GET("/list", perm("monitor:logininfor:list"), criterion(logininforRule), s.ListLogininfor)
		logininfor.POST("/export", perm("monitor:logininfor:export"), criterion(logininforRule), oplog("登录日志", types.BUSINESS_EXPORT), s.ExportLogininfor)
		logininfor.DELETE("/clean", perm("monitor:logininfor:remove"), oplog("登录日志", types.BUSINESS_CLEAN), s.CleanLogininfor)
		logininfor.DELETE("/:infoIds", perm("monitor:logininfor:remove"), oplog("登录日志", types.BUSINESS_DELETE), s.DeleteLogininfor)
		logininfor.GET("/unlock/:userName", perm("monitor:logininfor:unlock"), oplog("账户解锁", types.BUSINESS_OTHER), s.UnlockLogininfor)
	}

	operlog := monitor.Group("/operlog")
	{
		operlog.GET("/list", perm("monitor:operlog:list"), criterion(operLogRule), s.ListOperLog)
		operlog.POST("/export", perm("monitor:operlog:export"), criterion(operLogRule), oplog("操作日志", types.BUSINESS_EXPORT), s.ExportOperLog)
		operlog.GET("/:operId", perm("monitor:operlog:query"), s.GetOperLog)
		operlog.DELETE("/clean", perm("monitor:operlog:remove"), oplog("操作日志", types.BUSINESS_CLEAN), s.CleanOperLog)
		operlog.DELETE("/:operIds", perm("monitor:operlog:remove"), oplog("操作日志", types.BUSINESS_DELETE), s.DeleteOperLog)
	}

	online := monitor.Group("/online")
	{
		online.GET("/list", perm("monitor:online:list"), s.ListOnline)
		online.DELETE("/:tokenId", perm("monitor:online:forceLogout"), oplog("在线用户", types.BUSINESS_FORCE), s.ForceLogout)
	}

	cache := monitor.Group("/cache")
	{
		cache.Use(perm("monitor:cache:list"))
		cache.GET("", s.CacheInfo)
		cache.GET("/getNames", s.CacheNames)
		cache.GET("/getKeys/:cacheName", s.CacheKeys)
		cache.GET("/getValue/:cacheName/:cacheKey", s.CacheValue)
		cache.DELETE("/clearCacheName/:cacheName", s.ClearCacheName)
		cache.DELETE("/clearCacheKey/:cacheKey", s.ClearCacheKey)
		cache.DELETE("/clearCacheAll", s.ClearCacheAll)
	}

	monitor.GET("/server", perm("monitor:server:list"), s.ServerInfo)

	job := monitor.Group("/job")
	{
		job.GET("/list", perm("monitor:job:list"), criterion(jobRule), s.ListJob)
		job.POST("/export", perm("monitor:job:export"), criterion(jobRule), oplog("定时任务", types.BUSINESS_EXPORT), s.ExportJob)
		job.GET("/:jobId", perm("monitor:job:query"), s.GetJob)
		job.POST("", perm("monitor:job:add"), oplog("定时任务", types.BUSINESS_INSERT), s.CreateJob)
		job.PUT("", perm("monitor:job:edit"), oplog("定时任务", types.BUSINESS_UPDATE), s.UpdateJob)
		job.PUT("/changeStatus", perm("monitor:job:changeStatus"), oplog("定时任务", types.BUSINESS_UPDATE), s.ChangeJobStatus)
		job.PUT("/run", perm("monitor:job:changeStatus"), oplog("定时任务", types.BUSINESS_UPDATE), s.RunJob)
		job.DELETE("/:jobIds", perm("monitor:job:remove"), oplog("定时任务", types.BUSINESS_DELETE), s.DeleteJob)
	}

	jobLog := monitor.Group("/jobLog")
	{
		jobLog.GET("/list", perm("monitor:job:list"), criterion(jobLogRule), s.ListJobLog)
		jobLog.POST("/export", perm("monitor:job:export"), criterion(jobLogRule), oplog("调度日志", types.BUSINESS_EXPORT), s.ExportJobLog)
		jobLog.GET("/:jobLogId", perm("monitor:job:query"), s.GetJobLog)
		jobLog.DELETE("/clean", perm("monitor:job:remove"), oplog("调度日志", types.BUSINESS_CLEAN), s.CleanJobLog)
		jobLog.DELETE("/:jobLogIds", perm("monitor:job:remove"), oplog("调度日志", types.BUSINESS_DELETE), s.DeleteJobLog)
	}

	exb := authed.Group("/exb_museum")

	museum := exb.Group("/museum")
	{
		museum.GET("/list", perm("exb_museum:museum:list"), criterion(museumRule), s.ListMuseum)
		museum.POST("/export", perm("exb_museum:museum:export"), criterion(museumRule), oplog("博物馆管理", types.BUSINESS_EXPORT), s.ExportMuseum)
		museum.POST("/importTemplate", s.MuseumImportTemplate)
		museum.POST("/importData", perm("exb_museum:museum:import"), oplog("博物馆管理", types.BUSINESS_IMPORT), s.ImportMuseum)
		museum.GET("/:museumId", perm("exb_museum:museum:query"), s.GetMuseum)
		museum.POST("", perm("exb_museum:museum:add"), oplog("博物馆管理", types.BUSINESS_INSERT), s.CreateMuseum)
		museum.PUT("", perm("exb_museum:museum:edit"), oplog("博物馆管理", types.BUSINESS_UPDATE), s.UpdateMuseum)
		museum.DELETE("/:museumIds", perm("exb_museum:museum:remove"), oplog("博物馆管理", types.BUSINESS_DELETE), s.DeleteMuseum)

		media := museum.Group("/media")
		{
			media.GET("/list", perm("exb_museum:media:list"), s.ListMedia)
			media.GET("/:mediaId", perm("exb_museum:media:query"), s.GetMedia)
			media.POST("/upload", perm("exb_museum:media:add"), oplog("媒体资源", types.BUSINESS_INSERT), s.UploadMedia)
			media.PUT("", perm("exb_museum:media:edit"), oplog("媒体资源", types.BUSINESS_UPDATE), s.UpdateMedia)
			media.DELETE("/:mediaId", perm("exb_museum:media:remove"), oplog("媒体资源", types.BUSINESS_DELETE), s.DeleteMedia)
		}
	}

	hall := exb.Group("/hall")
	{
		hall.GET("/list", perm("exb_museum:hall:list"), criterion(hallRule), s.ListHall)
		hall.POST("/export", perm("exb_museum:hall:export"), criterion(hallRule), oplog("展厅管理", types.BUSINESS_EXPORT), s.ExportHall)
		hall.POST("/importTemplate", s.HallImportTemplate)
		hall.POST("/importData", perm("exb_museum:hall:import"), oplog("展厅管理", types.BUSINESS_IMPORT), s.ImportHall)
		hall.GET("/:hallId", perm("exb_museum:hall:query"), s.GetHall)
		hall.POST("", perm("exb_museum:hall:add"), oplog("展厅管理", types.BUSINESS_INSERT), s.CreateHall)
		hall.PUT("", perm("exb_museum:hall:edit"), oplog("展厅管理", types.BUSINESS_UPDATE), s.UpdateHall)
		hall.DELETE("/:hallIds", perm("exb_museum:hall:remove"), oplog("展厅管理", types.BUSINESS_DELETE), s.DeleteHall)
	}

	exhibition := exb.Group("/exbition")
	{
		exhibition.GET("/list", perm("exb_museum:exbition:list"), criterion(exhibitionRule), s.ListExhibition)
		exhibition.POST("/export", perm("exb_museum:exbition:export"), criterion(exhibitionRule), oplog("展览管理", types.BUSINESS_EXPORT), s.ExportExhibition)
		exhibition.POST("/importTemplate", s.ExhibitionImportTemplate)
		exhibition.POST("/importData", perm("exb_museum:exbition:import"), oplog("展览管理", types.BUSINESS_IMPORT), s.ImportExhibition)
		exhibition.GET("/:exhibitionId", perm("exb_museum:exbition:query"), s.GetExhibition)
		exhibition.POST("", perm("exb_museum:exbition:add"), oplog("展览管理", types.BUSINESS_INSERT), s.CreateExhibition)
		exhibition.PUT("", perm("exb_museum:exbition:edit"), oplog("展览管理", types.BUSINESS_UPDATE), s.UpdateExhibition)
		exhibition.DELETE("/:exhibitionIds", perm("exb_museum:exbition:remove"), oplog("展览管理", types.BUSINESS_DELETE), s.DeleteExhibition)
	}

	unit := exb.Group("/unit")
	{
		unit.GET("/list", perm("exb_museum:unit:list"), criterion(unitRule), s.ListUnit)
		unit.POST("/export", perm("exb_museum:unit:export"), criterion(unitRule), oplog("展览单元", types.BUSINESS_EXPORT), s.ExportUnit)
		unit.POST("/importTemplate", s.UnitImportTemplate)
		unit.POST("/importData", perm("exb_museum:unit:import"), oplog("展览单元", types.BUSINESS_IMPORT), s.ImportUnit)
		unit.GET("/:unitId", perm("exb_museum:unit:query"), s.GetUnit)
		unit.POST("", perm("exb_museum:unit:add"), oplog("展览单元", types.BUSINESS_INSERT), s.CreateUnit)
		unit.PUT("", perm("exb_museum:unit:edit"), oplog("展览单元", types.BUSINESS_UPDATE), s.UpdateUnit)
		unit.DELETE("/:unitIds", perm("exb_museum:unit:remove"), oplog("展览单元", types.BUSINESS_DELETE), s.DeleteUnit)
	}

	collection := exb.Group("/collection")
	{
		collection.GET("/list", perm("exb_museum:collection:list"), criterion(collectionRule), s.ListCollection)
		collection.POST("/export", perm("exb_museum:collection:export"), criterion(collectionRule), oplog("藏品管理", types.BUSINESS_EXPORT), s.ExportCollection)
		collection.POST("/importTemplate", s.CollectionImportTemplate)
		collection.POST("/importData", perm("exb_museum:collection:import"), oplog("藏品管理", types.BUSINESS_IMPORT), s.ImportCollection)
		collection.GET("/:collectionId", perm("exb_museum:collection:query"), s.GetCollection)
		collection.POST("", perm("exb_museum:collection:add"), oplog("藏品管理", types.BUSINESS_INSERT), s.CreateCollection)
		collection.PUT("", perm("exb_museum:collection:edit"), oplog("藏品管理", types.BUSINESS_UPDATE), s.UpdateCollection)
		collection.DELETE("/:collectionIds", perm("exb_museum:collection:remove"), oplog("藏品管理", types.BUSINESS_DELETE), s.DeleteCollection)
	}

	activity := exb.Group("/activity")
	{
		activity.GET("/list", perm("exb_museum:activity:list"), criterion(activityRule), s.ListActivity)
		activity.GET("/export", perm("exb_museum:activity:export"), criterion(activityRule), oplog("活动管理", types.BUSINESS_EXPORT), s.ExportActivity)
		activity.POST("/importTemplate", s.ActivityImportTemplate)
		activity.POST("/importData", perm("exb_museum:activity:import"), oplog("活动管理", types.BUSINESS_IMPORT), s.ImportActivity)
		activity.GET("/:activityId", perm("exb_museum:activity:query"), s.GetActivity)
		activity.POST("", perm("exb_museum:activity:add"), oplog("活动管理", types.BUSINESS_INSERT), s.CreateActivity)
		activity.PUT("", perm("exb_museum:activity:edit"), oplog("活动管理", types.BUSINESS_UPDATE), s.UpdateActivity)
		activity.DELETE("/:activityIds", perm("exb_museum:activity:remove"), oplog("活动管理", types.BUSINESS_DELETE), s.DeleteActivity)
	}

	reservation := exb.Group("/reservation")
	{
		reservation.GET("/list", perm("exb_museum:activity:list"), criterion(reservationRule), s.ListReservation)
		reservation.DELETE("/:reservationId", perm("exb_museum:activity:remove"), oplog("活动预约", types.BUSINESS_DELETE), s.DeleteReservation)
	}

	wx := s.Engine.Group("/wx")
	{
		wx.POST("/auth/login", ipLimit("wx_login", core.WithLimit(20), core.WithRange(time.Minute)), s.WxLogin)

		public := wx.Group("/museum")
		{
			public.GET("/home/:appId", s.WxHome)
			public.GET("/exhibition/detail/:exhibitionId", s.WxExhibitionDetail)
			public.GET("/collection/:collectionId", s.WxCollectionDetail)
			public.GET("/unit/:unitId", s.WxUnitDetail)
		}

		signed := wx.Group("/museum")
		signed.Use(middleware.WxAuth(s.Core))
		{
			signed.GET("/activity/list/:appId", s.WxActivityList)
			signed.GET("/activity/:activityId", s.WxActivityDetail)
			signed.POST("/activity/reserve", wxLimit("wx_reserve", core.WithLimit(10), core.WithRange(time.Minute)), s.WxReserve)
			signed.POST("/activity/cancel", wxLimit("wx_reserve", core.WithLimit(10), core.WithRange(time.Minute)), s.WxCancelReservation)
			signed.GET("/reservation/my", s.WxMyReservations)
		}
	}

	crawl := s.Engine.Group("/aicrawl")
	{
		crawl.GET("/hello", s.CrawlHello)
		crawl.POST("/take-screenshot", crawlLimit("screenshot"), s.TakeScreenshot)
		crawl.POST("/scrape", crawlLimit("scrape"), s.Scrape)
		crawl.POST("/extract", crawlLimit("extract"), s.Extract)
	}
}
