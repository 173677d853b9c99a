package app

import (
	"database/sql"

	"github.com/mbolis/quick-forms/ai"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/session"
)

type App struct {
	*sql.DB
	config.Config
	Sessions *session.Sessions
	AI       *ai.Client
}
