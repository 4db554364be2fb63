package v1

import (
	"context"
	"log/slog"
	"mime/multipart"

	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// 新上传的媒体排在最后
const defaultMediaSort = 999

var mediaObjectTypes = []string{
	types.MEDIA_OBJECT_MUSEUM,
	types.MEDIA_OBJECT_EXHIBITION,
	types.MEDIA_OBJECT_COLLECTION,
	types.MEDIA_OBJECT_UNIT,
	types.MEDIA_OBJECT_ACTIVITY,
}

type MediaLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewMediaLogic(ctx context.Context, core *core.Core) *MediaLogic {
	return &MediaLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *MediaLogic) List(opts types.ListExbMuseumMediaOptions) ([]types.ExbMuseumMedia, error) {
	list, err := l.core.Store().ExbMuseumMediaStore().List(l.ctx, opts, nil)
	if err != nil {
		return nil, internal("MediaLogic.List.ExbMuseumMediaStore.List", err)
	}
	return list, nil
}

func (l *MediaLogic) Get(mediaID int64) (*types.ExbMuseumMedia, error) {
	media, err := l.core.Store().ExbMuseumMediaStore().Get(l.ctx, mediaID)
	if err != nil {
		return nil, notFoundOr("MediaLogic.Get.ExbMuseumMediaStore.Get", err, "媒体不存在")
	}
	return media, nil
}

type UploadMediaRequest struct {
	ObjectID   int64
	ObjectType string
	MediaType  int
}

func (l *MediaLogic) Upload(fh *multipart.FileHeader, req UploadMediaRequest) (*types.ExbMuseumMedia, error) {
	trace := "MediaLogic.Upload"
	if req.ObjectID == 0 {
		return nil, errors.Service(trace, "关联对象ID不能为空")
	}
	if req.ObjectType == "" {
		return nil, errors.Service(trace, "关联对象类型不能为空")
	}
	if !lo.Contains(mediaObjectTypes, req.ObjectType) {
		return nil, errors.Service(trace, "关联对象类型不正确")
	}
	if fh == nil {
		return nil, errors.Service(trace, "文件不能为空")
	}
	if req.MediaType == 0 {
		req.MediaType = types.MEDIA_TYPE_IMAGE
	}

	uploaded, err := NewUploadLogic(l.ctx, l.core).Upload(fh, UPLOAD_DIR_MEDIA)
	if err != nil {
		return nil, err
	}
	media := types.ExbMuseumMedia{
		ObjectType: req.ObjectType,
		ObjectID:   req.ObjectID,
		MediaType:  req.MediaType,
		MediaName:  fh.Filename,
		MediaURL:   uploaded.URL,
		CoverURL:   uploaded.URL,
		Sort:       defaultMediaSort,
		Size:       uploaded.Size,
		Status:     types.EXB_STATUS_NORMAL,
	}
	id, err := l.core.Store().ExbMuseumMediaStore().Create(l.ctx, media)
	if err != nil {
		l.removeFile(uploaded.URL)
		return nil, internal("MediaLogic.Upload.ExbMuseumMediaStore.Create", err)
	}
	return l.Get(id)
}

// Update 只允许修改排序、封面、名称与状态, 设为封面时取消同一对象的其他封面
func (l *MediaLogic) Update(req types.ExbMuseumMedia) error {
	media, err := l.Get(req.MediaID)
	if err != nil {
		return err
	}
	media.Sort = req.Sort
	media.IsCover = req.IsCover
	media.Status = req.Status
	if req.MediaName != "" {
		media.MediaName = req.MediaName
	}
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if media.IsCover == 1 {
			if err := l.core.Store().ExbMuseumMediaStore().ClearCover(ctx, media.ObjectType, media.ObjectID, media.MediaID); err != nil {
				return internal("MediaLogic.Update.ExbMuseumMediaStore.ClearCover", err)
			}
		}
		if err := l.core.Store().ExbMuseumMediaStore().Update(ctx, *media); err != nil {
			return internal("MediaLogic.Update.ExbMuseumMediaStore.Update", err)
		}
		return nil
	})
}

// Delete 逻辑删除记录, 同时删除存储中的文件
func (l *MediaLogic) Delete(mediaID int64) error {
	media, err := l.Get(mediaID)
	if err != nil {
		return err
	}
	if err = l.core.Store().ExbMuseumMediaStore().Delete(l.ctx, mediaID); err != nil {
		return internal("MediaLogic.Delete.ExbMuseumMediaStore.Delete", err)
	}
	l.removeFile(media.MediaURL)
	if media.CoverURL != "" && media.CoverURL != media.MediaURL {
		l.removeFile(media.CoverURL)
	}
	return nil
}

func (l *MediaLogic) removeFile(url string) {
	if url == "" {
		return
	}
	if n, err := l.core.Store().ExbMuseumMediaStore().CountByURL(l.ctx, url); err != nil || n > 0 {
		return
	}
	if err := NewUploadLogic(l.ctx, l.core).Remove(url); err != nil {
		slog.Warn("failed to remove media file", slog.String("url", url), slog.Any("error", err))
	}
}
