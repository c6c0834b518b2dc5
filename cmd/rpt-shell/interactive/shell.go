// Package interactive provides the interactive command-line interface
// of rpt-shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/bridge"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/discovery"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/liveview"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/persistence"
)

// Shell errors.
var (
	ErrNoDevice         = errors.New("no device open (use 'open <n>')")
	ErrNoViewfinder     = errors.New("viewfinder not started (use 'viewfinder start')")
	ErrNoSettingsStore  = errors.New("no settings store configured")
	ErrNoBrowser        = errors.New("bridge discovery not available")
	ErrBulbNotRunning   = errors.New("no bulb exposure running")
	ErrLiveViewInactive = errors.New("live view server not running")
)

// Options configures a Shell.
type Options struct {
	// Settings stores per-camera release settings for save and restore.
	// If nil, save and restore are unavailable.
	Settings *persistence.SettingsStore

	// Browser finds bridges for the discover command. If nil, discover is
	// unavailable.
	Browser discovery.Browser

	// DiscoverTimeout bounds one discover command.
	DiscoverTimeout time.Duration

	// Bridge is the client configuration used for bridge connections.
	// Address is set per connection.
	Bridge bridge.ClientConfig

	// LiveView configures the live view server.
	LiveView liveview.Config

	// Logger receives operational logs. If nil, logging is disabled.
	Logger *slog.Logger
}

// Shell is an interactive camera session on top of a camera.Instance.
type Shell struct {
	inst *camera.Instance
	opts Options

	outMu sync.Mutex
	out   io.Writer
	rl    *readline.Instance

	sources []camera.SourceInfo
	found   []*discovery.BridgeService
	bridges map[string]*bridge.Module

	dev      *camera.Device
	rc       camera.ReleaseControl
	handlers [3]int
	vf       camera.Viewfinder
	frames   atomic.Int64
	bulb     camera.BulbReleaseControl
	live     *liveview.Server
}

// New creates a shell writing to os.Stdout until Run attaches readline.
func New(inst *camera.Instance, opts Options) *Shell {
	if opts.DiscoverTimeout <= 0 {
		opts.DiscoverTimeout = 3 * time.Second
	}
	return &Shell{
		inst:    inst,
		opts:    opts,
		out:     os.Stdout,
		bridges: make(map[string]*bridge.Module),
	}
}

// SetOutput redirects shell output.
func (s *Shell) SetOutput(w io.Writer) {
	s.outMu.Lock()
	s.out = w
	s.outMu.Unlock()
}

// Stderr returns a writer that coordinates with the readline prompt once
// Run has started, os.Stderr before.
func (s *Shell) Stderr() io.Writer {
	if s.rl != nil {
		return s.rl.Stderr()
	}
	return os.Stderr
}

func (s *Shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, args...)
}

// Run starts the interactive command loop. It returns when the user
// quits or ctx is done, and closes everything the session opened.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "camera> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	s.SetOutput(rl.Stdout())
	defer rl.Close()
	defer s.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			s.println("Exiting...")
			cancel()
			return nil
		}

		if s.Execute(ctx, line) {
			s.println("Exiting...")
			cancel()
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should
// exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		err = s.cmdList(ctx)

	case "open", "o":
		err = s.cmdOpen(ctx, args)

	case "close":
		err = s.cmdClose()

	case "info":
		err = s.cmdInfo()

	case "props":
		err = s.cmdProps()

	case "iprops":
		err = s.cmdImageProps()

	case "get", "g":
		err = s.cmdGet(args)

	case "set", "s":
		err = s.cmdSet(args)

	case "values", "v":
		err = s.cmdValues(args)

	case "mode":
		err = s.cmdMode(args)

	case "savetarget", "st":
		err = s.cmdSaveTarget(args)

	case "release", "r":
		err = s.cmdRelease()

	case "bulb":
		err = s.cmdBulb(args)

	case "command", "cmd":
		err = s.cmdCommand(args)

	case "shots":
		err = s.cmdShots()

	case "viewfinder", "vf":
		err = s.cmdViewfinder(args)

	case "histogram", "hist":
		err = s.cmdHistogram(args)

	case "liveview", "lv":
		err = s.cmdLiveView(args)

	case "save":
		err = s.cmdSave()

	case "restore":
		err = s.cmdRestore()

	case "discover":
		err = s.cmdDiscover(ctx)

	case "bridge":
		err = s.cmdBridge(ctx, args)

	case "quit", "exit", "q":
		return true

	default:
		s.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		s.printf("Error: %v\n", err)
	}
	return false
}

// Close stops everything the session opened. It is safe to call more
// than once.
func (s *Shell) Close() {
	s.closeDevice()
	for name, m := range s.bridges {
		if err := m.Close(); err != nil && s.opts.Logger != nil {
			s.opts.Logger.Debug("closing bridge failed", slog.String("bridge", name), slog.String("error", err.Error()))
		}
		delete(s.bridges, name)
	}
}

func (s *Shell) printHelp() {
	s.println(`
Camera Shell Commands:
  Devices:
    list                   - List connected cameras
    open <n>               - Open camera number n from the list
    close                  - Close the open camera
    info                   - Show camera model, serial and capabilities
    props                  - List device properties

  Shooting:
    iprops                 - List image properties
    get <prop>             - Read an image property (name or id, e.g. ISO, 0xd01c)
    set <prop> <value>     - Write an image property (display text or raw value)
    values <prop>          - List valid values of an image property
    mode <P|Tv|Av|M>       - Select the shooting mode
    savetarget <t> [dir]   - Store images on camera, host or both
    release                - Release the shutter
    bulb <sec> | bulb stop - Run a bulb exposure
    command <focus|wb>     - Adjust focus or white balance
    shots                  - Show number of available shots
    save                   - Remember release settings of this camera
    restore                - Apply remembered release settings

  Live view:
    viewfinder start|stop|status
    viewfinder output <lcd|video|off>
    histogram <luminance|red|green|blue>
    liveview start [addr]  - Serve the viewfinder over HTTP
    liveview stop

  Bridges:
    discover               - Browse the network for camera bridges
    bridge <addr|n>        - Add the cameras of a bridge

  Other:
    help                   - Show this help
    quit                   - Exit`)
}
