package v1

import (
	"context"
	"fmt"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type PostLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewPostLogic(ctx context.Context, core *core.Core) *PostLogic {
	return &PostLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *PostLogic) List(opts types.ListSysPostOptions, c *types.Criterion) ([]types.SysPost, int64, error) {
	list, err := l.core.Store().SysPostStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("PostLogic.List.SysPostStore.List", err)
	}
	total, err := l.core.Store().SysPostStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("PostLogic.List.SysPostStore.Total", err)
	}
	return list, total, nil
}

func (l *PostLogic) Get(postID int64) (*types.SysPost, error) {
	post, err := l.core.Store().SysPostStore().Get(l.ctx, postID)
	if err != nil {
		return nil, notFoundOr("PostLogic.Get.SysPostStore.Get", err, "岗位不存在")
	}
	return post, nil
}

func (l *PostLogic) OptionSelect() ([]types.SysPost, error) {
	list, err := l.core.Store().SysPostStore().List(l.ctx, types.ListSysPostOptions{}, nil)
	if err != nil {
		return nil, internal("PostLogic.OptionSelect.SysPostStore.List", err)
	}
	return list, nil
}

func (l *PostLogic) validate(post types.SysPost, action string) error {
	exist, err := l.core.Store().SysPostStore().GetByName(l.ctx, post.PostName)
	if err != nil && !isNotFound(err) {
		return internal("PostLogic.validate.SysPostStore.GetByName", err)
	}
	if exist != nil && exist.PostID != post.PostID {
		return errors.Service("PostLogic.validate", fmt.Sprintf("%s岗位'%s'失败，岗位名称已存在", action, post.PostName))
	}
	exist, err = l.core.Store().SysPostStore().GetByCode(l.ctx, post.PostCode)
	if err != nil && !isNotFound(err) {
		return internal("PostLogic.validate.SysPostStore.GetByCode", err)
	}
	if exist != nil && exist.PostID != post.PostID {
		return errors.Service("PostLogic.validate", fmt.Sprintf("%s岗位'%s'失败，岗位编码已存在", action, post.PostName))
	}
	return nil
}

func (l *PostLogic) Create(post types.SysPost) error {
	if err := l.validate(post, "新增"); err != nil {
		return err
	}
	post.Created(l.OperName())
	if _, err := l.core.Store().SysPostStore().Create(l.ctx, post); err != nil {
		return internal("PostLogic.Create.SysPostStore.Create", err)
	}
	return nil
}

func (l *PostLogic) Update(post types.SysPost) error {
	if err := l.validate(post, "修改"); err != nil {
		return err
	}
	post.Updated(l.OperName())
	if err := l.core.Store().SysPostStore().Update(l.ctx, post); err != nil {
		return internal("PostLogic.Update.SysPostStore.Update", err)
	}
	return nil
}

func (l *PostLogic) Delete(postIDs []int64) error {
	for _, id := range postIDs {
		post, err := l.Get(id)
		if err != nil {
			return err
		}
		count, err := l.core.Store().SysUserPostStore().CountByPost(l.ctx, id)
		if err != nil {
			return internal("PostLogic.Delete.SysUserPostStore.CountByPost", err)
		}
		if count > 0 {
			return errors.Service("PostLogic.Delete", fmt.Sprintf("%s已分配,不能删除", post.PostName))
		}
	}
	if err := l.core.Store().SysPostStore().Delete(l.ctx, postIDs); err != nil {
		return internal("PostLogic.Delete.SysPostStore.Delete", err)
	}
	return nil
}
