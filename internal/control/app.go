package control

import (
	"voxdesk/internal/audio"
	"voxdesk/internal/config"
	"voxdesk/internal/controller"
	"voxdesk/internal/history"
	"voxdesk/internal/hook"
	"voxdesk/internal/logging"
	"voxdesk/internal/models"
	"voxdesk/internal/notify"
	"voxdesk/internal/transcribe"

	"github.com/sirupsen/logrus"
)

// app bundles the loaded config and logger shared by the commands.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func loadApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Configure(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) format() audio.Format {
	return audio.Format{
		SampleRate: a.cfg.Audio.SampleRate,
		Channels:   a.cfg.Audio.Channels,
		FrameMS:    a.cfg.Audio.FrameMS,
	}
}

func (a *app) recorder() *audio.Recorder {
	return audio.NewRecorder(audio.RecorderConfig{
		Format:            a.format(),
		TrimSilence:       a.cfg.Audio.TrimSilence,
		VADAggressiveness: a.cfg.Audio.VADAggressiveness,
	}, audio.NewMicSource(a.cfg.Audio.DeviceName, a.logger), a.logger)
}

func (a *app) transcriber() *transcribe.Client {
	return transcribe.New(a.cfg.BackendURL(), a.cfg.Timeout(), a.logger)
}

func (a *app) models() *models.Client {
	return models.FromConfig(a.cfg, a.logger)
}

func (a *app) history() *history.Log {
	h, err := history.Load(a.cfg.Paths.TranscriptPath, a.cfg.UI.HistoryTail, a.cfg.Transcripts.Enabled)
	if err != nil {
		a.logger.Warnf("read transcript log: %v", err)
	}
	return h
}

func (a *app) notifier(p notify.Prompter) *notify.Service {
	return notify.FromConfig(a.cfg, p, a.logger)
}

func (a *app) controller(d controller.Display, model func() string, hist *history.Log) *controller.Controller {
	return controller.New(controller.Options{
		Recorder:    a.recorder(),
		Transcriber: a.transcriber(),
		Player:      audio.NewSpeaker(),
		Display:     d,
		History:     hist,
		Hook:        hook.NewRunner(&a.cfg.Hook, a.logger),
		HookQueue:   a.cfg.Hook.QueueSize,
		SavePath:    a.cfg.Paths.RecordingPath,
		Model:       model,
		Logger:      a.logger,
	})
}
