package types

type TableName string

func (s TableName) Name() string {
	return string(s)
}

const (
	TABLE_SYS_USER       = TableName("sys_user")
	TABLE_SYS_DEPT       = TableName("sys_dept")
	TABLE_SYS_ROLE       = TableName("sys_role")
	TABLE_SYS_MENU       = TableName("sys_menu")
	TABLE_SYS_POST       = TableName("sys_post")
	TABLE_SYS_USER_ROLE  = TableName("sys_user_role")
	TABLE_SYS_USER_POST  = TableName("sys_user_post")
	TABLE_SYS_ROLE_MENU  = TableName("sys_role_menu")
	TABLE_SYS_ROLE_DEPT  = TableName("sys_role_dept")
	TABLE_SYS_DICT_TYPE  = TableName("sys_dict_type")
	TABLE_SYS_DICT_DATA  = TableName("sys_dict_data")
	TABLE_SYS_CONFIG     = TableName("sys_config")
	TABLE_SYS_NOTICE     = TableName("sys_notice")
	TABLE_SYS_LOGININFOR = TableName("sys_logininfor")
	TABLE_SYS_OPER_LOG   = TableName("sys_oper_log")
	TABLE_SYS_JOB        = TableName("sys_job")
	TABLE_SYS_JOB_LOG    = TableName("sys_job_log")

	TABLE_EXB_MUSEUM           = TableName("exb_museum")
	TABLE_EXB_MUSEUM_HALL      = TableName("exb_museum_hall")
	TABLE_EXB_EXHIBITION       = TableName("exb_exhibition")
	TABLE_EXB_EXHIBITION_UNIT  = TableName("exb_exhibition_unit")
	TABLE_EXB_COLLECTION       = TableName("exb_collection")
	TABLE_EXB_ACTIVITY         = TableName("exb_activity")
	TABLE_EXB_ACTIVITY_RESERVE = TableName("exb_activity_reservation")
	TABLE_EXB_MUSEUM_MEDIA     = TableName("exb_museum_media")
	TABLE_EXB_WX_USER          = TableName("exb_wx_user")
	TABLE_SCHEMA_MIGRATIONS    = TableName("schema_migrations")
)
