package main

import (
	"fmt"
	"os"

	"voxdesk/internal/config"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	fmt.Printf("config=%s\n", cfg.Paths.ConfigPath)
	fmt.Printf("backend=%s schema=%s timeout=%s\n", cfg.BackendURL(), cfg.Backend.Schema, cfg.Timeout())
	fmt.Printf("audio device=%q rate=%d ch=%d trim=%v\n", cfg.Audio.DeviceName, cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.TrimSilence)
	fmt.Printf("notify enabled=%v permission=%s\n", cfg.Notify.Enabled, cfg.Notify.Permission)
	fmt.Printf("hook.command=%q args=%v enabled=%v\n", cfg.Hook.Command, cfg.Hook.Args, cfg.Hook.Enabled())
}
