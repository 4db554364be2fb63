package srv

import (
	"fmt"

	"github.com/exb-museum/exb-admin/app/core"
)

func NewPluginCore(c *core.Core) (*PluginCore, error) {
	customConfig := core.NewCustomConfigPayload[CustomConfig]()
	if err := c.Cfg().LoadCustomConfig(&customConfig); err != nil {
		return nil, fmt.Errorf("Failed to install custom config, %w", err)
	}
	if customConfig.CustomConfig.EncryptKey == "" {
		customConfig.CustomConfig.EncryptKey = c.Cfg().Security.EncryptKey
	}
	if customConfig.CustomConfig.DefaultRateLimit <= 0 {
		customConfig.CustomConfig.DefaultRateLimit = 60
	}

	return &PluginCore{
		Cfg:     customConfig.CustomConfig,
		AppCore: c,
	}, nil
}

type PluginCore struct {
	Cfg     CustomConfig
	AppCore *core.Core
}
