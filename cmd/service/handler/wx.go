package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
)

func (s *HttpSrv) WxHome(c *gin.Context) {
	home, err := v1.NewWxLogic(c, s.Core).Home(c.Param("appId"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, home)
}

func (s *HttpSrv) WxExhibitionDetail(c *gin.Context) {
	respondGet(c, "exhibitionId", v1.NewWxLogic(c, s.Core).ExhibitionDetail)
}

func (s *HttpSrv) WxCollectionDetail(c *gin.Context) {
	respondGet(c, "collectionId", v1.NewWxLogic(c, s.Core).CollectionDetail)
}

func (s *HttpSrv) WxUnitDetail(c *gin.Context) {
	respondGet(c, "unitId", v1.NewWxLogic(c, s.Core).UnitDetail)
}

type WxLoginRequest struct {
	AppID string `json:"appId" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (s *HttpSrv) WxLogin(c *gin.Context) {
	var req WxLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := v1.NewWxLogic(c, s.Core).Login(req.AppID, req.Code)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) WxActivityList(c *gin.Context) {
	list, err := v1.NewWxLogic(c, s.Core).ActivityList(c.Param("appId"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	if list == nil {
		list = []v1.WxActivity{}
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) WxActivityDetail(c *gin.Context) {
	respondGet(c, "activityId", v1.NewWxLogic(c, s.Core).ActivityDetail)
}

type WxReserveRequest struct {
	ActivityID  int64  `json:"activityId" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

func (s *HttpSrv) WxReserve(c *gin.Context) {
	var req WxReserveRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := v1.NewWxLogic(c, s.Core).Reserve(req.ActivityID, req.PhoneNumber)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIMessage(c, msg)
}

type WxCancelRequest struct {
	ReservationID int64 `json:"reservationId" binding:"required"`
}

func (s *HttpSrv) WxCancelReservation(c *gin.Context) {
	var req WxCancelRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := v1.NewWxLogic(c, s.Core).Cancel(req.ReservationID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIMessage(c, msg)
}

func (s *HttpSrv) WxMyReservations(c *gin.Context) {
	list, err := v1.NewWxLogic(c, s.Core).MyReservations()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}
