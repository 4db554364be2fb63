package service

import "github.com/exb-museum/exb-admin/pkg/types"

// 各列表接口的查询规则, 排序字段只允许白名单内的列

func asc(columns ...string) []types.SortItem {
	res := make([]types.SortItem, 0, len(columns))
	for _, c := range columns {
		res = append(res, types.SortItem{Column: c})
	}
	return res
}

func desc(column string) []types.SortItem {
	return []types.SortItem{{Column: column, Desc: true}}
}

var (
	userRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"userId":     "u.user_id",
			"userName":   "u.user_name",
			"createTime": "u.create_time",
		},
		DefaultSort: asc("u.user_id"),
		TimeColumn:  "u.create_time",
		DeptColumn:  "d.dept_id",
		UserColumn:  "u.user_id",
		UseScope:    true,
	}

	authUserRule = types.CriterionRule{
		Paging:      true,
		DefaultSort: asc("u.user_id"),
		DeptColumn:  "d.dept_id",
		UserColumn:  "u.user_id",
		UseScope:    true,
	}

	roleRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"roleSort":   "r.role_sort",
			"createTime": "r.create_time",
		},
		DefaultSort: asc("r.role_sort"),
		TimeColumn:  "r.create_time",
		DeptColumn:  "d.dept_id",
		UserColumn:  "u.user_id",
		UseScope:    true,
	}

	deptRule = types.CriterionRule{
		DefaultSort: asc("parent_id", "order_num"),
		DeptColumn:  "dept_id",
		UseScope:    true,
	}

	postRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"postSort": "post_sort", "createTime": "create_time"},
		DefaultSort: asc("post_sort"),
	}

	dictTypeRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"dictId": "dict_id", "createTime": "create_time"},
		DefaultSort: asc("dict_id"),
		TimeColumn:  "create_time",
	}

	dictDataRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"dictSort": "dict_sort"},
		DefaultSort: asc("dict_sort"),
	}

	configRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"configId": "config_id", "createTime": "create_time"},
		DefaultSort: asc("config_id"),
		TimeColumn:  "create_time",
	}

	noticeRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"noticeId": "notice_id", "createTime": "create_time"},
		DefaultSort: desc("notice_id"),
	}

	logininforRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"infoId":    "info_id",
			"userName":  "user_name",
			"loginTime": "login_time",
		},
		DefaultSort: desc("info_id"),
		TimeColumn:  "login_time",
	}

	operLogRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"operId":   "oper_id",
			"operName": "oper_name",
			"operTime": "oper_time",
			"costTime": "cost_time",
		},
		DefaultSort: desc("oper_id"),
		TimeColumn:  "oper_time",
	}

	jobRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"jobId": "job_id", "createTime": "create_time"},
		DefaultSort: asc("job_id"),
	}

	jobLogRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"jobLogId": "job_log_id", "createTime": "create_time"},
		DefaultSort: desc("job_log_id"),
		TimeColumn:  "create_time",
	}

	museumRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"museumId": "museum_id", "createTime": "create_time"},
		DefaultSort: asc("museum_id"),
		TimeColumn:  "create_time",
	}

	hallRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"hallId": "hall_id", "createTime": "create_time"},
		DefaultSort: asc("hall_id"),
		TimeColumn:  "create_time",
	}

	exhibitionRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"exhibitionId": "exhibition_id",
			"startTime":    "start_time",
			"endTime":      "end_time",
			"createTime":   "create_time",
		},
		DefaultSort: asc("exhibition_id"),
		TimeColumn:  "create_time",
	}

	unitRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"unitId":    "unit_id",
			"sortOrder": "sort_order",
		},
		DefaultSort: asc("exhibition_id", "section", "sort_order"),
	}

	collectionRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"collectionId": "collection_id", "createTime": "create_time"},
		DefaultSort: asc("collection_id"),
		TimeColumn:  "create_time",
	}

	activityRule = types.CriterionRule{
		Paging: true,
		SortColumns: map[string]string{
			"activityId":        "activity_id",
			"activityStartTime": "activity_start_time",
			"createTime":        "create_time",
		},
		DefaultSort: asc("activity_start_time", "activity_id"),
		TimeColumn:  "activity_start_time",
	}

	reservationRule = types.CriterionRule{
		Paging:      true,
		SortColumns: map[string]string{"registrationTime": "r.registration_time"},
		DefaultSort: desc("r.registration_time"),
		TimeColumn:  "r.registration_time",
	}
)
