package opts

import (
	"github.com/walteh/semshift/pkg/config"
	"github.com/walteh/semshift/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config    *config.Config
	StatusMgr *status.Manager
	UserLog   *status.UserLogger
}
