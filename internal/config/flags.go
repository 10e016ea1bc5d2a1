package config

import (
	"flag"
	"strings"
)

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWidth     = flag.Int("width", 0, "Framebuffer width")
	flagHeight    = flag.Int("height", 0, "Framebuffer height")
	flagScale     = flag.Int("scale", 0, "Window pixels per framebuffer pixel")
	flagWireframe = flag.Bool("wireframe", false, "Draw triangle edges only")
	flagAssets    = flag.String("assets", "", "Comma-separated asset directories searched for model and skin names")
	flagOBJ       = flag.String("obj", "", "OBJ model to load")
	flagMD2       = flag.String("md2", "", "MD2 model to load")
	flagSkin      = flag.String("skin", "", "Skin image (TGA or PNG) for the MD2 model")
	flagClip      = flag.String("clip", "", "MD2 animation clip")
	flagOut       = flag.String("out", "", "Snapshot output path (.webp or .png)")
	flagFrames    = flag.Int("frames", 0, "Frames to simulate before the snapshot")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Display.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Display.Height = *flagHeight
	}
	if *flagScale > 0 {
		cfg.Display.Scale = *flagScale
	}
	if *flagWireframe {
		cfg.Render.Wireframe = true
	}
	if *flagAssets != "" {
		cfg.Assets.Dirs = splitList(*flagAssets)
	}
	if *flagOBJ != "" {
		cfg.Assets.OBJ = *flagOBJ
	}
	if *flagMD2 != "" {
		cfg.Assets.MD2 = *flagMD2
	}
	if *flagSkin != "" {
		cfg.Assets.Skin = *flagSkin
	}
	if *flagClip != "" {
		cfg.Assets.Clip = *flagClip
	}
	if *flagOut != "" {
		cfg.Output.Snapshot = *flagOut
	}
	if *flagFrames > 0 {
		cfg.Output.Frames = *flagFrames
	}
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
