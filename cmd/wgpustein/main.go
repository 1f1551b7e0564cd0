package main

import (
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gekko3d/wgpustein"
	"github.com/gekko3d/wgpustein/rt/gpu"
	"github.com/gekko3d/wgpustein/rt/shaders"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	width := flag.Int("width", 1280, "Initial window width")
	height := flag.Int("height", 720, "Initial window height")
	title := flag.String("title", "wgpustein", "Window title")
	debug := flag.Bool("debug", false, "Enable debug logging; uniform overflows panic")
	tickHz := flag.Int("tick-hz", 30, "Fixed update rate")
	backend := flag.String("backend", "", "GPU backend: "+strings.Join(gpu.BackendNames(), ", ")+"; empty picks the platform default")
	shaderPath := flag.String("shader", "", "WGSL file replacing the built-in quad shader")
	fly := flag.Bool("fly", false, "Steer the camera with WASD and the right mouse button instead of orbiting")
	flag.Parse()

	logger := wgpustein.NewDefaultLogger("wgpustein", *debug)

	host, err := wgpustein.NewGlfwHost(wgpustein.DefaultWindowConfig(*width, *height, *title), logger)
	if err != nil {
		logger.Errorf("%v", err)
		return int(wgpustein.ExitFailure)
	}
	defer host.Destroy()

	assets := wgpustein.NewAssetServer()
	shaderId := assets.AddShader("quad.wgsl", shaders.QuadWGSL)
	if *shaderPath != "" {
		if shaderId, err = assets.LoadShader(*shaderPath); err != nil {
			logger.Errorf("%v", err)
			return int(wgpustein.ExitFailure)
		}
	}
	shader, _ := assets.Shader(shaderId)

	opts := gpu.DefaultOptions()
	opts.ShaderSource = shader.Source
	if opts.Backends, err = gpu.ParseBackend(*backend); err != nil {
		logger.Errorf("%v", err)
		return int(wgpustein.ExitFailure)
	}
	ctx, err := gpu.NewContext(host.SurfaceDescriptor(), opts)
	if err != nil {
		logger.Errorf("%v", err)
		host.SetTitle(host.Title() + " | failed")
		return int(wgpustein.ExitFailure)
	}
	defer ctx.Release()

	timeModule := wgpustein.NewTimeModule()
	if *tickHz > 0 {
		timeModule.FixedPeriod = time.Second / time.Duration(*tickHz)
	}

	app := wgpustein.NewAppBuilder().
		UseModule(
			wgpustein.LoggingModule{Logger: logger},
			timeModule,
			wgpustein.NewPlatformWindow(host),
			wgpustein.AssetServerModule{Server: assets},
			wgpustein.NewSpriteRenderModule(ctx),
			wgpustein.FpsModule{Host: host},
			SceneModule{Fly: *fly},
		).
		Build()

	logger.Infof("app setup")
	app.Run(host)
	host.Loop()

	code, _ := app.ExitStatus()
	logger.Infof("app exited with code %d", code)
	return int(code)
}
