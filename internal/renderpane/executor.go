package renderpane

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	goplug "github.com/hashicorp/go-plugin"
)

// renderpaneExecutableName is the conventional binary name a renderpane
// plugin is installed under, used by ReapOrphans to find stray
// subprocesses after a host crash.
const renderpaneExecutableName = "plasmasvg-renderpane"

// Executor owns a single renderpane subprocess's go-plugin client
// lifecycle, adapted from the teacher's internal/plugin/executor's
// lazy-RPC-client pattern.
type Executor struct {
	path    string
	logger  hclog.Logger
	client  *goplug.Client
	rpc     *renderPluginRPCClient
	verbose bool
}

// NewExecutor builds an Executor for the renderpane plugin binary at
// path, first validating its protocol compatibility via --plugin-info.
func NewExecutor(path string, verbose bool) (*Executor, error) {
	if _, err := DetectPlugin(path); err != nil {
		return nil, fmt.Errorf("renderpane plugin %s: %w", path, err)
	}
	return &Executor{path: path, verbose: verbose}, nil
}

func (e *Executor) connect() (*renderPluginRPCClient, error) {
	if e.rpc != nil {
		return e.rpc, nil
	}

	logger := hclog.NewNullLogger()
	if e.verbose {
		logger = hclog.New(&hclog.LoggerOptions{Name: "renderpane", Level: hclog.Debug})
	}

	e.client = goplug.NewClient(&goplug.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins:         map[string]goplug.Plugin{"render": &RenderPluginRPC{}},
		Cmd:             exec.Command(e.path),
		AllowedProtocols: []goplug.Protocol{goplug.ProtocolNetRPC},
		Logger:           logger,
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		return nil, fmt.Errorf("connecting to renderpane plugin: %w", err)
	}
	raw, err := rpcClient.Dispense("render")
	if err != nil {
		e.client.Kill()
		return nil, fmt.Errorf("dispensing render plugin: %w", err)
	}
	client, ok := raw.(*renderPluginRPCClient)
	if !ok {
		e.client.Kill()
		return nil, fmt.Errorf("unexpected renderpane plugin type %T", raw)
	}
	e.rpc = client
	return client, nil
}

// Render dispatches a rasterization job to the subprocess, reconnecting
// first if the previous connection has exited.
func (e *Executor) Render(ctx context.Context, req RenderRequest) (RenderResponse, error) {
	if e.client != nil && e.client.Exited() {
		e.rpc = nil
		e.client = nil
	}
	client, err := e.connect()
	if err != nil {
		return RenderResponse{}, err
	}
	return client.Render(ctx, req)
}

// Close terminates the subprocess if running.
func (e *Executor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.rpc = nil
	}
}

// Exited reports whether the subprocess has terminated.
func (e *Executor) Exited() bool {
	return e.client != nil && e.client.Exited()
}

// ReapOrphans returns the PIDs of any renderpane subprocess still
// running after a previous host crash, identified by executable
// basename; callers are expected to signal-kill them. The JSON-stdio
// protocol path in the teacher has no equivalent since it never leaves
// a long-lived process behind.
func ReapOrphans() ([]int, error) {
	return findByExecutable(renderpaneExecutableName)
}
