package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func jobListOptions(c *gin.Context) types.ListSysJobOptions {
	return types.ListSysJobOptions{
		JobName:      formOrQuery(c, "jobName"),
		JobGroup:     formOrQuery(c, "jobGroup"),
		Status:       formOrQuery(c, "status"),
		InvokeTarget: formOrQuery(c, "invokeTarget"),
	}
}

func (s *HttpSrv) ListJob(c *gin.Context) {
	list, total, err := v1.NewJobLogic(c, s.Core).List(jobListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportJob(c *gin.Context) {
	list, _, err := v1.NewJobLogic(c, s.Core).List(jobListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "定时任务", list)
}

func (s *HttpSrv) GetJob(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	job, err := v1.NewJobLogic(c, s.Core).Get(jobID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, job)
}

func (s *HttpSrv) CreateJob(c *gin.Context) {
	var req types.SysJob
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewJobLogic(c, s.Core).Create(req))
}

func (s *HttpSrv) UpdateJob(c *gin.Context) {
	var req types.SysJob
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewJobLogic(c, s.Core).Update(req))
}

type JobStatusRequest struct {
	JobID  int64  `json:"jobId" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (s *HttpSrv) ChangeJobStatus(c *gin.Context) {
	var req JobStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewJobLogic(c, s.Core).ChangeStatus(req.JobID, req.Status))
}

type RunJobRequest struct {
	JobID    int64  `json:"jobId" binding:"required"`
	JobGroup string `json:"jobGroup"`
}

func (s *HttpSrv) RunJob(c *gin.Context) {
	var req RunJobRequest
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, v1.NewJobLogic(c, s.Core).Run(req.JobID))
}

func (s *HttpSrv) DeleteJob(c *gin.Context) {
	ids, err := pathIDs(c, "jobIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewJobLogic(c, s.Core).Delete(ids))
}

func jobLogListOptions(c *gin.Context) types.ListSysJobLogOptions {
	return types.ListSysJobLogOptions{
		JobName:      formOrQuery(c, "jobName"),
		JobGroup:     formOrQuery(c, "jobGroup"),
		Status:       formOrQuery(c, "status"),
		InvokeTarget: formOrQuery(c, "invokeTarget"),
	}
}

func (s *HttpSrv) ListJobLog(c *gin.Context) {
	list, total, err := v1.NewJobLogLogic(c, s.Core).List(jobLogListOptions(c), criterionOf(c))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APITable(c, list, total)
}

func (s *HttpSrv) ExportJobLog(c *gin.Context) {
	list, _, err := v1.NewJobLogLogic(c, s.Core).List(jobLogListOptions(c), criterionOf(c).NoPaging())
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, "调度日志", list)
}

func (s *HttpSrv) GetJobLog(c *gin.Context) {
	jobLogID, err := pathID(c, "jobLogId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	log, err := v1.NewJobLogLogic(c, s.Core).Get(jobLogID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, log)
}

func (s *HttpSrv) DeleteJobLog(c *gin.Context) {
	ids, err := pathIDs(c, "jobLogIds")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewJobLogLogic(c, s.Core).Delete(ids))
}

func (s *HttpSrv) CleanJobLog(c *gin.Context) {
	response.APIToAjax(c, v1.NewJobLogLogic(c, s.Core).Clean())
}
