package tui

import (
	"voxdesk/internal/controller"
	"voxdesk/internal/models"
	"voxdesk/internal/notify"
)

type recStateMsg struct{ state controller.State }

type playEnabledMsg struct{ enabled bool }

type transcribingMsg struct{ sessionID string }

type transcriptMsg struct {
	sessionID string
	text      string
}

type toggleDoneMsg struct{ err error }

type playDoneMsg struct{ err error }

type modelsLoadedMsg struct {
	names []string
	err   error
}

type currentModelMsg struct {
	name string
	err  error
}

type configLoadedMsg struct {
	ticket *models.Ticket
	model  string
	cfg    models.Config
	err    error
}

type configChangedMsg struct {
	model string
	err   error
}

type permissionAskMsg struct {
	reply chan notify.Permission
}
