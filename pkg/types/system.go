package types

import (
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

type SysUser struct {
	UserID      int64    `json:"userId" db:"user_id" excel:"用户序号"`
	DeptID      int64    `json:"deptId" db:"dept_id" excel:"部门编号"`
	UserName    string   `json:"userName" db:"user_name" excel:"登录名称"`
	NickName    string   `json:"nickName" db:"nick_name" excel:"用户名称"`
	UserType    string   `json:"userType" db:"user_type"`
	Email       string   `json:"email" db:"email" excel:"用户邮箱"`
	Phonenumber string   `json:"phonenumber" db:"phonenumber" excel:"手机号码"`
	Sex         string   `json:"sex" db:"sex" excel:"用户性别" excelconv:"0=男,1=女,2=未知"`
	Avatar      string   `json:"avatar" db:"avatar"`
	Password    string   `json:"-" db:"password"`
	Status      string   `json:"status" db:"status" excel:"帐号状态" excelconv:"0=正常,1=停用"`
	DelFlag     string   `json:"delFlag" db:"del_flag"`
	LoginIP     string   `json:"loginIp" db:"login_ip" excel:"最后登录IP"`
	LoginDate   DateTime `json:"loginDate" db:"login_date" excel:"最后登录时间"`
	AuditFields

	Dept    *SysDept  `json:"dept,omitempty" db:"-"`
	Roles   []SysRole `json:"roles" db:"-"`
	RoleIDs []int64   `json:"roleIds" db:"-"`
	PostIDs []int64   `json:"postIds" db:"-"`
	RoleID  *int64    `json:"roleId" db:"-"`
}

func (u SysUser) IsAdmin() bool {
	return IsAdminUser(u.UserID)
}

func IsAdminUser(userID int64) bool {
	return userID == ADMIN_USER_ID
}

// SysUserWithDept 列表查询时联表部门名称
type SysUserWithDept struct {
	SysUser
	DeptName   string `json:"-" db:"dept_name" excel:"部门名称"`
	DeptLeader string `json:"-" db:"dept_leader" excel:"部门负责人"`
}

type ListSysUserOptions struct {
	UserID      int64
	UserName    string
	Phonenumber string
	Status      string
	DeptID      int64
	// 已分配/未分配指定角色的用户
	AllocatedRoleID   int64
	UnallocatedRoleID int64
}

// Apply 表别名 u 为 sys_user, d 为 sys_dept
func (opts ListSysUserOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"u.del_flag": SYS_NOT_DELETE})
	if opts.UserID != 0 {
		*query = query.Where(sq.Eq{"u.user_id": opts.UserID})
	}
	if opts.UserName != "" {
		*query = query.Where(sq.Like{"u.user_name": "%" + opts.UserName + "%"})
	}
	if opts.Phonenumber != "" {
		*query = query.Where(sq.Like{"u.phonenumber": "%" + opts.Phonenumber + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"u.status": opts.Status})
	}
	if opts.DeptID != 0 {
		*query = query.Where(sq.Expr("(u.dept_id = ? OR u.dept_id IN (SELECT t.dept_id FROM "+TABLE_SYS_DEPT.Name()+" t WHERE ? = ANY(string_to_array(t.ancestors, ','))))", opts.DeptID, sqlInt(opts.DeptID)))
	}
	if opts.AllocatedRoleID != 0 {
		*query = query.Where(sq.Expr("u.user_id IN (SELECT user_id FROM "+TABLE_SYS_USER_ROLE.Name()+" WHERE role_id = ?)", opts.AllocatedRoleID))
	}
	if opts.UnallocatedRoleID != 0 {
		*query = query.Where(sq.Expr("u.user_id NOT IN (SELECT user_id FROM "+TABLE_SYS_USER_ROLE.Name()+" WHERE role_id = ?)", opts.UnallocatedRoleID))
	}
}

type SysDept struct {
	DeptID    int64  `json:"deptId" db:"dept_id"`
	ParentID  int64  `json:"parentId" db:"parent_id"`
	Ancestors string `json:"ancestors" db:"ancestors"`
	DeptName  string `json:"deptName" db:"dept_name"`
	OrderNum  int    `json:"orderNum" db:"order_num"`
	Leader    string `json:"leader" db:"leader"`
	Phone     string `json:"phone" db:"phone"`
	Email     string `json:"email" db:"email"`
	Status    string `json:"status" db:"status"`
	DelFlag   string `json:"delFlag" db:"del_flag"`
	AuditFields

	ParentName string    `json:"parentName,omitempty" db:"-"`
	Children   []SysDept `json:"children,omitempty" db:"-"`
}

type ListSysDeptOptions struct {
	DeptID    int64
	ParentID  *int64
	DeptName  string
	Status    string
	ExcludeID int64
}

func (opts ListSysDeptOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": SYS_NOT_DELETE})
	if opts.DeptID != 0 {
		*query = query.Where(sq.Eq{"dept_id": opts.DeptID})
	}
	if opts.ParentID != nil {
		*query = query.Where(sq.Eq{"parent_id": *opts.ParentID})
	}
	if opts.DeptName != "" {
		*query = query.Where(sq.Like{"dept_name": "%" + opts.DeptName + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
	if opts.ExcludeID != 0 {
		*query = query.Where(sq.And{
			sq.NotEq{"dept_id": opts.ExcludeID},
			sq.Expr("NOT (? = ANY(string_to_array(ancestors, ',')))", sqlInt(opts.ExcludeID)),
		})
	}
}

type SysRole struct {
	RoleID            int64  `json:"roleId" db:"role_id" excel:"角色序号"`
	RoleName          string `json:"roleName" db:"role_name" excel:"角色名称"`
	RoleKey           string `json:"roleKey" db:"role_key" excel:"角色权限"`
	RoleSort          int    `json:"roleSort" db:"role_sort" excel:"角色排序"`
	DataScope         string `json:"dataScope" db:"data_scope" excel:"数据范围"`
	MenuCheckStrictly bool   `json:"menuCheckStrictly" db:"menu_check_strictly"`
	DeptCheckStrictly bool   `json:"deptCheckStrictly" db:"dept_check_strictly"`
	Status            string `json:"status" db:"status" excel:"角色状态" excelconv:"0=正常,1=停用"`
	DelFlag           string `json:"delFlag" db:"del_flag"`
	AuditFields

	Flag        bool     `json:"flag" db:"-"`
	MenuIDs     []int64  `json:"menuIds" db:"-"`
	DeptIDs     []int64  `json:"deptIds" db:"-"`
	Permissions []string `json:"permissions,omitempty" db:"-"`
}

func (r SysRole) IsAdmin() bool {
	return IsAdminRole(r.RoleID)
}

func IsAdminRole(roleID int64) bool {
	return roleID == ADMIN_ROLE_ID
}

type ListSysRoleOptions struct {
	RoleID   int64
	RoleIDs  []int64
	RoleName string
	RoleKey  string
	Status   string
	UserID   int64
}

// Apply 表别名 r 为 sys_role
func (opts ListSysRoleOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"r.del_flag": SYS_NOT_DELETE})
	if opts.RoleID != 0 {
		*query = query.Where(sq.Eq{"r.role_id": opts.RoleID})
	}
	if len(opts.RoleIDs) > 0 {
		*query = query.Where(sq.Eq{"r.role_id": opts.RoleIDs})
	}
	if opts.RoleName != "" {
		*query = query.Where(sq.Like{"r.role_name": "%" + opts.RoleName + "%"})
	}
	if opts.RoleKey != "" {
		*query = query.Where(sq.Like{"r.role_key": "%" + opts.RoleKey + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"r.status": opts.Status})
	}
	if opts.UserID != 0 {
		*query = query.Where(sq.Expr("r.role_id IN (SELECT role_id FROM "+TABLE_SYS_USER_ROLE.Name()+" WHERE user_id = ?)", opts.UserID))
	}
}

const (
	MENU_TYPE_DIR    = "M"
	MENU_TYPE_MENU   = "C"
	MENU_TYPE_BUTTON = "F"

	LAYOUT      = "Layout"
	PARENT_VIEW = "ParentView"
	INNER_LINK  = "InnerLink"

	MENU_NO_FRAME = 1
	MENU_IS_FRAME = 0
)

type SysMenu struct {
	MenuID    int64  `json:"menuId" db:"menu_id"`
	MenuName  string `json:"menuName" db:"menu_name"`
	ParentID  int64  `json:"parentId" db:"parent_id"`
	OrderNum  int    `json:"orderNum" db:"order_num"`
	Path      string `json:"path" db:"path"`
	Component string `json:"component" db:"component"`
	Query     string `json:"query" db:"query"`
	IsFrame   int    `json:"isFrame" db:"is_frame"`
	IsCache   int    `json:"isCache" db:"is_cache"`
	MenuType  string `json:"menuType" db:"menu_type"`
	Visible   string `json:"visible" db:"visible"`
	Status    string `json:"status" db:"status"`
	Perms     string `json:"perms" db:"perms"`
	Icon      string `json:"icon" db:"icon"`
	AuditFields

	ParentName string    `json:"parentName,omitempty" db:"-"`
	Children   []SysMenu `json:"children,omitempty" db:"-"`
}

type ListSysMenuOptions struct {
	MenuName  string
	Visible   string
	Status    string
	MenuTypes []string
	UserID    int64
	RoleID    int64
}

// Apply 表别名 m 为 sys_menu
func (opts ListSysMenuOptions) Apply(query *sq.SelectBuilder) {
	if opts.MenuName != "" {
		*query = query.Where(sq.Like{"m.menu_name": "%" + opts.MenuName + "%"})
	}
	if opts.Visible != "" {
		*query = query.Where(sq.Eq{"m.visible": opts.Visible})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"m.status": opts.Status})
	}
	if len(opts.MenuTypes) > 0 {
		*query = query.Where(sq.Eq{"m.menu_type": opts.MenuTypes})
	}
	if opts.UserID != 0 {
		*query = query.Where(sq.Expr(`m.menu_id IN (SELECT rm.menu_id FROM `+TABLE_SYS_ROLE_MENU.Name()+` rm
			JOIN `+TABLE_SYS_USER_ROLE.Name()+` ur ON ur.role_id = rm.role_id
			JOIN `+TABLE_SYS_ROLE.Name()+` r ON r.role_id = ur.role_id AND r.status = '0' AND r.del_flag = '0'
			WHERE ur.user_id = ?)`, opts.UserID))
	}
	if opts.RoleID != 0 {
		*query = query.Where(sq.Expr("m.menu_id IN (SELECT menu_id FROM "+TABLE_SYS_ROLE_MENU.Name()+" WHERE role_id = ?)", opts.RoleID))
	}
}

type SysPost struct {
	PostID   int64  `json:"postId" db:"post_id" excel:"岗位序号"`
	PostCode string `json:"postCode" db:"post_code" excel:"岗位编码"`
	PostName string `json:"postName" db:"post_name" excel:"岗位名称"`
	PostSort int    `json:"postSort" db:"post_sort" excel:"岗位排序"`
	Status   string `json:"status" db:"status" excel:"状态"`
	AuditFields

	Flag bool `json:"flag" db:"-"`
}

type ListSysPostOptions struct {
	PostCode string
	PostName string
	Status   string
	UserID   int64
}

func (opts ListSysPostOptions) Apply(query *sq.SelectBuilder) {
	if opts.PostCode != "" {
		*query = query.Where(sq.Like{"post_code": "%" + opts.PostCode + "%"})
	}
	if opts.PostName != "" {
		*query = query.Where(sq.Like{"post_name": "%" + opts.PostName + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
	if opts.UserID != 0 {
		*query = query.Where(sq.Expr("post_id IN (SELECT post_id FROM "+TABLE_SYS_USER_POST.Name()+" WHERE user_id = ?)", opts.UserID))
	}
}

type SysDictType struct {
	DictID   int64  `json:"dictId" db:"dict_id" excel:"字典主键"`
	DictName string `json:"dictName" db:"dict_name" excel:"字典名称"`
	DictType string `json:"dictType" db:"dict_type" excel:"字典类型"`
	Status   string `json:"status" db:"status" excel:"状态"`
	AuditFields
}

type ListSysDictTypeOptions struct {
	DictName string
	DictType string
	Status   string
}

func (opts ListSysDictTypeOptions) Apply(query *sq.SelectBuilder) {
	if opts.DictName != "" {
		*query = query.Where(sq.Like{"dict_name": "%" + opts.DictName + "%"})
	}
	if opts.DictType != "" {
		*query = query.Where(sq.Like{"dict_type": "%" + opts.DictType + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}

type SysDictData struct {
	DictCode  int64  `json:"dictCode" db:"dict_code" excel:"字典编码"`
	DictSort  int    `json:"dictSort" db:"dict_sort" excel:"字典排序"`
	DictLabel string `json:"dictLabel" db:"dict_label" excel:"字典标签"`
	DictValue string `json:"dictValue" db:"dict_value" excel:"字典键值"`
	DictType  string `json:"dictType" db:"dict_type" excel:"字典类型"`
	CSSClass  string `json:"cssClass" db:"css_class"`
	ListClass string `json:"listClass" db:"list_class"`
	IsDefault string `json:"isDefault" db:"is_default" excel:"是否默认"`
	Status    string `json:"status" db:"status" excel:"状态"`
	AuditFields
}

type ListSysDictDataOptions struct {
	DictType  string
	DictLabel string
	Status    string
}

func (opts ListSysDictDataOptions) Apply(query *sq.SelectBuilder) {
	if opts.DictType != "" {
		*query = query.Where(sq.Eq{"dict_type": opts.DictType})
	}
	if opts.DictLabel != "" {
		*query = query.Where(sq.Like{"dict_label": "%" + opts.DictLabel + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}

type SysConfig struct {
	ConfigID    int64  `json:"configId" db:"config_id" excel:"参数主键"`
	ConfigName  string `json:"configName" db:"config_name" excel:"参数名称"`
	ConfigKey   string `json:"configKey" db:"config_key" excel:"参数键名"`
	ConfigValue string `json:"configValue" db:"config_value" excel:"参数键值"`
	ConfigType  string `json:"configType" db:"config_type" excel:"系统内置" excelconv:"Y=是,N=否"`
	AuditFields
}

type ListSysConfigOptions struct {
	ConfigName string
	ConfigKey  string
	ConfigType string
}

func (opts ListSysConfigOptions) Apply(query *sq.SelectBuilder) {
	if opts.ConfigName != "" {
		*query = query.Where(sq.Like{"config_name": "%" + opts.ConfigName + "%"})
	}
	if opts.ConfigKey != "" {
		*query = query.Where(sq.Like{"config_key": "%" + opts.ConfigKey + "%"})
	}
	if opts.ConfigType != "" {
		*query = query.Where(sq.Eq{"config_type": opts.ConfigType})
	}
}

// 内置参数键
const (
	CONFIG_CAPTCHA_ENABLED = "sys.account.captchaEnabled"
	CONFIG_REGISTER_USER   = "sys.account.registerUser"
	CONFIG_INIT_PASSWORD   = "sys.user.initPassword"
	CONFIG_SKIN_NAME       = "sys.index.skinName"
)

type SysNotice struct {
	NoticeID      int64  `json:"noticeId" db:"notice_id"`
	NoticeTitle   string `json:"noticeTitle" db:"notice_title"`
	NoticeType    string `json:"noticeType" db:"notice_type"`
	NoticeContent string `json:"noticeContent" db:"notice_content"`
	Status        string `json:"status" db:"status"`
	AuditFields
}

type ListSysNoticeOptions struct {
	NoticeTitle string
	NoticeType  string
	CreateBy    string
}

func (opts ListSysNoticeOptions) Apply(query *sq.SelectBuilder) {
	if opts.NoticeTitle != "" {
		*query = query.Where(sq.Like{"notice_title": "%" + opts.NoticeTitle + "%"})
	}
	if opts.NoticeType != "" {
		*query = query.Where(sq.Eq{"notice_type": opts.NoticeType})
	}
	if opts.CreateBy != "" {
		*query = query.Where(sq.Like{"create_by": "%" + opts.CreateBy + "%"})
	}
}

const (
	LOGIN_SUCCESS  = "Success"
	LOGIN_LOGOUT   = "Logout"
	LOGIN_REGISTER = "Register"
	LOGIN_FAIL     = "Error"
)

type SysLogininfor struct {
	InfoID        int64    `json:"infoId" db:"info_id" excel:"序号"`
	UserName      string   `json:"userName" db:"user_name" excel:"用户账号"`
	Ipaddr        string   `json:"ipaddr" db:"ipaddr" excel:"登录地址"`
	LoginLocation string   `json:"loginLocation" db:"login_location" excel:"登录地点"`
	Browser       string   `json:"browser" db:"browser" excel:"浏览器"`
	OS            string   `json:"os" db:"os" excel:"操作系统"`
	Status        string   `json:"status" db:"status" excel:"登录状态" excelconv:"0=成功,1=失败"`
	Msg           string   `json:"msg" db:"msg" excel:"提示消息"`
	LoginTime     DateTime `json:"loginTime" db:"login_time" excel:"访问时间"`
}

type ListSysLogininforOptions struct {
	Ipaddr   string
	UserName string
	Status   string
}

func (opts ListSysLogininforOptions) Apply(query *sq.SelectBuilder) {
	if opts.Ipaddr != "" {
		*query = query.Where(sq.Like{"ipaddr": "%" + opts.Ipaddr + "%"})
	}
	if opts.UserName != "" {
		*query = query.Where(sq.Like{"user_name": "%" + opts.UserName + "%"})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
}

type SysOperLog struct {
	OperID        int64    `json:"operId" db:"oper_id" excel:"操作序号"`
	Title         string   `json:"title" db:"title" excel:"操作模块"`
	BusinessType  int      `json:"businessType" db:"business_type" excel:"业务类型"`
	Method        string   `json:"method" db:"method" excel:"请求方法"`
	RequestMethod string   `json:"requestMethod" db:"request_method" excel:"请求方式"`
	OperatorType  int      `json:"operatorType" db:"operator_type" excel:"操作类别"`
	OperName      string   `json:"operName" db:"oper_name" excel:"操作人员"`
	DeptName      string   `json:"deptName" db:"dept_name" excel:"部门名称"`
	OperURL       string   `json:"operUrl" db:"oper_url" excel:"请求地址"`
	OperIP        string   `json:"operIp" db:"oper_ip" excel:"操作地址"`
	OperLocation  string   `json:"operLocation" db:"oper_location" excel:"操作地点"`
	OperParam     string   `json:"operParam" db:"oper_param" excel:"请求参数"`
	JSONResult    string   `json:"jsonResult" db:"json_result" excel:"返回参数"`
	Status        int      `json:"status" db:"status" excel:"状态"`
	ErrorMsg      string   `json:"errorMsg" db:"error_msg" excel:"错误消息"`
	OperTime      DateTime `json:"operTime" db:"oper_time" excel:"操作时间"`
	CostTime      int64    `json:"costTime" db:"cost_time" excel:"消耗时间"`
}

type ListSysOperLogOptions struct {
	Title         string
	OperName      string
	BusinessTypes []int
	Status        *int
	OperIP        string
}

func (opts ListSysOperLogOptions) Apply(query *sq.SelectBuilder) {
	if opts.Title != "" {
		*query = query.Where(sq.Like{"title": "%" + opts.Title + "%"})
	}
	if opts.OperName != "" {
		*query = query.Where(sq.Like{"oper_name": "%" + opts.OperName + "%"})
	}
	if len(opts.BusinessTypes) > 0 {
		*query = query.Where(sq.Eq{"business_type": opts.BusinessTypes})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.OperIP != "" {
		*query = query.Where(sq.Like{"oper_ip": "%" + opts.OperIP + "%"})
	}
}

// 定时任务
const (
	MISFIRE_DEFAULT    = "0"
	MISFIRE_IGNORE     = "1"
	MISFIRE_FIRE_ONCE  = "2"
	MISFIRE_DO_NOTHING = "3"

	JOB_CONCURRENT_ALLOW  = "0"
	JOB_CONCURRENT_FORBID = "1"

	JOB_STATUS_NORMAL = "0"
	JOB_STATUS_PAUSE  = "1"
)

type SysJob struct {
	JobID          int64  `json:"jobId" db:"job_id" excel:"任务序号"`
	JobName        string `json:"jobName" db:"job_name" excel:"任务名称"`
	JobGroup       string `json:"jobGroup" db:"job_group" excel:"任务组名"`
	InvokeTarget   string `json:"invokeTarget" db:"invoke_target" excel:"调用目标字符串"`
	CronExpression string `json:"cronExpression" db:"cron_expression" excel:"执行表达式"`
	MisfirePolicy  string `json:"misfirePolicy" db:"misfire_policy" excel:"计划策略"`
	Concurrent     string `json:"concurrent" db:"concurrent" excel:"并发执行"`
	Status         string `json:"status" db:"status" excel:"任务状态"`
	AuditFields

	NextValidTime DateTime `json:"nextValidTime" db:"-"`
}

type ListSysJobOptions struct {
	JobName      string
	JobGroup     string
	Status       string
	InvokeTarget string
}

func (opts ListSysJobOptions) Apply(query *sq.SelectBuilder) {
	if opts.JobName != "" {
		*query = query.Where(sq.Like{"job_name": "%" + opts.JobName + "%"})
	}
	if opts.JobGroup != "" {
		*query = query.Where(sq.Eq{"job_group": opts.JobGroup})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
	if opts.InvokeTarget != "" {
		*query = query.Where(sq.Like{"invoke_target": "%" + opts.InvokeTarget + "%"})
	}
}

type SysJobLog struct {
	JobLogID      int64    `json:"jobLogId" db:"job_log_id" excel:"日志序号"`
	JobName       string   `json:"jobName" db:"job_name" excel:"任务名称"`
	JobGroup      string   `json:"jobGroup" db:"job_group" excel:"任务组名"`
	InvokeTarget  string   `json:"invokeTarget" db:"invoke_target" excel:"调用目标字符串"`
	JobMessage    string   `json:"jobMessage" db:"job_message" excel:"日志信息"`
	Status        string   `json:"status" db:"status" excel:"执行状态"`
	ExceptionInfo string   `json:"exceptionInfo" db:"exception_info" excel:"异常信息"`
	CreateTime    DateTime `json:"createTime" db:"create_time"`
}

type ListSysJobLogOptions struct {
	JobName      string
	JobGroup     string
	Status       string
	InvokeTarget string
}

func (opts ListSysJobLogOptions) Apply(query *sq.SelectBuilder) {
	if opts.JobName != "" {
		*query = query.Where(sq.Like{"job_name": "%" + opts.JobName + "%"})
	}
	if opts.JobGroup != "" {
		*query = query.Where(sq.Eq{"job_group": opts.JobGroup})
	}
	if opts.Status != "" {
		*query = query.Where(sq.Eq{"status": opts.Status})
	}
	if opts.InvokeTarget != "" {
		*query = query.Where(sq.Like{"invoke_target": "%" + opts.InvokeTarget + "%"})
	}
}

func sqlInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
