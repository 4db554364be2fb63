package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/response"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// 展馆业务的六类实体接口形态一致, 以下泛型函数收敛重复的响应处理

func respondTable[T any](c *gin.Context, list []T, total int64, err error) {
	if err != nil {
		response.APIError(c, err)
		return
	}
	if list == nil {
		list = []T{}
	}
	response.APITable(c, list, total)
}

func respondExport[T any](c *gin.Context, sheet string, list []T, err error) {
	if err != nil {
		response.APIError(c, err)
		return
	}
	writeExcel(c, sheet, list)
}

func respondGet[T any](c *gin.Context, param string, get func(int64) (*T, error)) {
	id, err := pathID(c, param)
	if err != nil {
		response.APIError(c, err)
		return
	}
	item, err := get(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, item)
}

func respondSave[T any](c *gin.Context, save func(T) error) {
	var req T
	if !bindJSON(c, &req) {
		return
	}
	response.APIToAjax(c, save(req))
}

func respondDelete(c *gin.Context, param string, del func([]int64) error) {
	ids, err := pathIDs(c, param)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, del(ids))
}

// museum

func museumListOptions(c *gin.Context) types.ListExbMuseumOptions {
	return types.ListExbMuseumOptions{
		MuseumName: formOrQuery(c, "museumName"),
		Status:     paramIntPtr(c, "status"),
	}
}

func (s *HttpSrv) ListMuseum(c *gin.Context) {
	list, total, err := v1.NewMuseumLogic(c, s.Core).List(museumListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportMuseum(c *gin.Context) {
	list, _, err := v1.NewMuseumLogic(c, s.Core).List(museumListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "博物馆数据", list, err)
}

func (s *HttpSrv) MuseumImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbMuseum](c, "博物馆数据", "museum")
}

func (s *HttpSrv) ImportMuseum(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewMuseumLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetMuseum(c *gin.Context) {
	respondGet(c, "museumId", v1.NewMuseumLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateMuseum(c *gin.Context) {
	respondSave(c, v1.NewMuseumLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateMuseum(c *gin.Context) {
	respondSave(c, v1.NewMuseumLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteMuseum(c *gin.Context) {
	respondDelete(c, "museumIds", v1.NewMuseumLogic(c, s.Core).Delete)
}

// hall

func hallListOptions(c *gin.Context) types.ListExbMuseumHallOptions {
	return types.ListExbMuseumHallOptions{
		HallName: formOrQuery(c, "hallName"),
		MuseumID: paramInt64(c, "museumId"),
		Status:   paramIntPtr(c, "status"),
	}
}

func (s *HttpSrv) ListHall(c *gin.Context) {
	list, total, err := v1.NewHallLogic(c, s.Core).List(hallListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportHall(c *gin.Context) {
	list, _, err := v1.NewHallLogic(c, s.Core).List(hallListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "展厅数据", list, err)
}

func (s *HttpSrv) HallImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbMuseumHall](c, "展厅数据", "hall")
}

func (s *HttpSrv) ImportHall(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewHallLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetHall(c *gin.Context) {
	respondGet(c, "hallId", v1.NewHallLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateHall(c *gin.Context) {
	respondSave(c, v1.NewHallLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateHall(c *gin.Context) {
	respondSave(c, v1.NewHallLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteHall(c *gin.Context) {
	respondDelete(c, "hallIds", v1.NewHallLogic(c, s.Core).Delete)
}

// exhibition

func exhibitionListOptions(c *gin.Context) types.ListExbExhibitionOptions {
	return types.ListExbExhibitionOptions{
		ExhibitionName: formOrQuery(c, "exhibitionName"),
		MuseumID:       paramInt64(c, "museumId"),
		ExhibitionType: paramIntPtr(c, "exhibitionType"),
		Status:         paramIntPtr(c, "status"),
		Hall:           formOrQuery(c, "hall"),
		Organizer:      formOrQuery(c, "organizer"),
	}
}

func (s *HttpSrv) ListExhibition(c *gin.Context) {
	list, total, err := v1.NewExhibitionLogic(c, s.Core).List(exhibitionListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportExhibition(c *gin.Context) {
	list, _, err := v1.NewExhibitionLogic(c, s.Core).List(exhibitionListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "展览数据", list, err)
}

func (s *HttpSrv) ExhibitionImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbExhibition](c, "展览数据", "exhibition")
}

func (s *HttpSrv) ImportExhibition(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewExhibitionLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetExhibition(c *gin.Context) {
	respondGet(c, "exhibitionId", v1.NewExhibitionLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateExhibition(c *gin.Context) {
	respondSave(c, v1.NewExhibitionLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateExhibition(c *gin.Context) {
	respondSave(c, v1.NewExhibitionLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteExhibition(c *gin.Context) {
	respondDelete(c, "exhibitionIds", v1.NewExhibitionLogic(c, s.Core).Delete)
}

// unit

func unitListOptions(c *gin.Context) types.ListExbExhibitionUnitOptions {
	return types.ListExbExhibitionUnitOptions{
		UnitName:     formOrQuery(c, "unitName"),
		ExhibitionID: paramInt64(c, "exhibitionId"),
		UnitType:     paramIntPtr(c, "unitType"),
		HallID:       paramInt64(c, "hallId"),
		Section:      formOrQuery(c, "section"),
		Status:       paramIntPtr(c, "status"),
	}
}

func (s *HttpSrv) ListUnit(c *gin.Context) {
	list, total, err := v1.NewUnitLogic(c, s.Core).List(unitListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportUnit(c *gin.Context) {
	list, _, err := v1.NewUnitLogic(c, s.Core).List(unitListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "展览单元数据", list, err)
}

func (s *HttpSrv) UnitImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbExhibitionUnit](c, "展览单元数据", "unit")
}

func (s *HttpSrv) ImportUnit(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewUnitLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetUnit(c *gin.Context) {
	respondGet(c, "unitId", v1.NewUnitLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateUnit(c *gin.Context) {
	respondSave(c, v1.NewUnitLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateUnit(c *gin.Context) {
	respondSave(c, v1.NewUnitLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteUnit(c *gin.Context) {
	respondDelete(c, "unitIds", v1.NewUnitLogic(c, s.Core).Delete)
}

// collection

func collectionListOptions(c *gin.Context) types.ListExbCollectionOptions {
	return types.ListExbCollectionOptions{
		CollectionName: formOrQuery(c, "collectionName"),
		CollectionType: formOrQuery(c, "collectionType"),
		MuseumID:       paramInt64(c, "museumId"),
		ExhibitionID:   paramInt64(c, "exhibitionId"),
		Status:         paramIntPtr(c, "status"),
	}
}

func (s *HttpSrv) ListCollection(c *gin.Context) {
	list, total, err := v1.NewCollectionLogic(c, s.Core).List(collectionListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportCollection(c *gin.Context) {
	list, _, err := v1.NewCollectionLogic(c, s.Core).List(collectionListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "藏品数据", list, err)
}

func (s *HttpSrv) CollectionImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbCollection](c, "藏品数据", "collection")
}

func (s *HttpSrv) ImportCollection(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewCollectionLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetCollection(c *gin.Context) {
	respondGet(c, "collectionId", v1.NewCollectionLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateCollection(c *gin.Context) {
	respondSave(c, v1.NewCollectionLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateCollection(c *gin.Context) {
	respondSave(c, v1.NewCollectionLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteCollection(c *gin.Context) {
	respondDelete(c, "collectionIds", v1.NewCollectionLogic(c, s.Core).Delete)
}

// activity

func activityListOptions(c *gin.Context) types.ListExbActivityOptions {
	return types.ListExbActivityOptions{
		ActivityName:   formOrQuery(c, "activityName"),
		ActivityType:   formOrQuery(c, "activityType"),
		Location:       formOrQuery(c, "location"),
		Presenter:      formOrQuery(c, "presenter"),
		TargetAudience: formOrQuery(c, "targetAudience"),
		MuseumID:       paramInt64(c, "museumId"),
		Status:         paramIntPtr(c, "status"),
	}
}

func (s *HttpSrv) ListActivity(c *gin.Context) {
	list, total, err := v1.NewActivityLogic(c, s.Core).List(activityListOptions(c), criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) ExportActivity(c *gin.Context) {
	list, _, err := v1.NewActivityLogic(c, s.Core).List(activityListOptions(c), criterionOf(c).NoPaging())
	respondExport(c, "活动数据", list, err)
}

func (s *HttpSrv) ActivityImportTemplate(c *gin.Context) {
	writeTemplate[types.ExbActivity](c, "活动数据", "activity")
}

func (s *HttpSrv) ImportActivity(c *gin.Context) {
	handleImport(c, func(r io.Reader, update bool) (string, error) {
		return v1.NewActivityLogic(c, s.Core).Import(r, update)
	})
}

func (s *HttpSrv) GetActivity(c *gin.Context) {
	respondGet(c, "activityId", v1.NewActivityLogic(c, s.Core).Get)
}

func (s *HttpSrv) CreateActivity(c *gin.Context) {
	respondSave(c, v1.NewActivityLogic(c, s.Core).Create)
}

func (s *HttpSrv) UpdateActivity(c *gin.Context) {
	respondSave(c, v1.NewActivityLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteActivity(c *gin.Context) {
	respondDelete(c, "activityIds", v1.NewActivityLogic(c, s.Core).Delete)
}

// reservation

func (s *HttpSrv) ListReservation(c *gin.Context) {
	list, total, err := v1.NewReservationLogic(c, s.Core).List(types.ListExbReservationOptions{
		ActivityID:  paramInt64(c, "activityId"),
		WxUserID:    paramInt64(c, "wxUserId"),
		PhoneNumber: c.Query("phoneNumber"),
		MuseumID:    paramInt64(c, "museumId"),
	}, criterionOf(c))
	respondTable(c, list, total, err)
}

func (s *HttpSrv) DeleteReservation(c *gin.Context) {
	id, err := pathID(c, "reservationId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewReservationLogic(c, s.Core).Delete(id))
}

// media

func (s *HttpSrv) ListMedia(c *gin.Context) {
	list, err := v1.NewMediaLogic(c, s.Core).List(types.ListExbMuseumMediaOptions{
		ObjectID:   paramInt64(c, "objectId"),
		ObjectType: c.Query("objectType"),
		MediaType:  paramIntPtr(c, "mediaType"),
		Status:     paramIntPtr(c, "status"),
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) GetMedia(c *gin.Context) {
	respondGet(c, "mediaId", v1.NewMediaLogic(c, s.Core).Get)
}

// UploadMedia mediaType 缺省为图片
func (s *HttpSrv) UploadMedia(c *gin.Context) {
	fh, _ := c.FormFile("file")
	req := v1.UploadMediaRequest{
		ObjectID:   paramInt64(c, "objectId"),
		ObjectType: formOrQuery(c, "objectType"),
		MediaType:  int(paramInt64(c, "mediaType")),
	}
	media, err := v1.NewMediaLogic(c, s.Core).Upload(fh, req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIAjax(c, gin.H{
		"msg":  "上传成功",
		"data": media,
	})
}

func (s *HttpSrv) UpdateMedia(c *gin.Context) {
	respondSave(c, v1.NewMediaLogic(c, s.Core).Update)
}

func (s *HttpSrv) DeleteMedia(c *gin.Context) {
	id, err := pathID(c, "mediaId")
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APIToAjax(c, v1.NewMediaLogic(c, s.Core).Delete(id))
}
