package srv

type Srv struct {
	rbac  *RBACSrv
	crawl *Crawl
}

type ApplyFunc func(s *Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{
		rbac: SetupRBACSrv(), // 角色鉴权
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ApplyGrants 启动时载入角色权限
func ApplyGrants(grants []Grant) ApplyFunc {
	return func(s *Srv) {
		s.rbac.Reload(grants)
	}
}

func (s *Srv) RBAC() *RBACSrv {
	return s.rbac
}

func (s *Srv) Crawl() *Crawl {
	return s.crawl
}
