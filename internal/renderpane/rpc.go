package renderpane

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// RenderRequest is a single rasterization job: a fully resolved SVG
// document (current-color-scheme substitution already applied by the
// Renderer Pool) plus the target element and pixel size.
type RenderRequest struct {
	Document []byte
	Element  string // empty means "the whole document"
	Width    int
	Height   int
}

// RenderResponse carries raw RGBA pixels, row-major, Width*Height*4
// bytes.
type RenderResponse struct {
	Width  int
	Height int
	Pix    []byte
}

// PluginInfo is the metadata a renderpane plugin reports about itself.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
}

// RenderPlugin is the interface a renderpane plugin implements.
type RenderPlugin interface {
	Render(ctx context.Context, req RenderRequest) (RenderResponse, error)
	GetMetadata() PluginInfo
}

// RenderPluginRPC adapts RenderPlugin to go-plugin's net/rpc transport.
type RenderPluginRPC struct {
	plugin.Plugin
	Impl RenderPlugin
}

func (p *RenderPluginRPC) Server(*plugin.MuxBroker) (interface{}, error) {
	return &renderPluginRPCServer{impl: p.Impl}, nil
}

func (p *RenderPluginRPC) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &renderPluginRPCClient{client: c}, nil
}

type renderPluginRPCServer struct {
	impl RenderPlugin
}

func (s *renderPluginRPCServer) Render(req RenderRequest, resp *RenderResponse) error {
	r, err := s.impl.Render(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = r
	return nil
}

func (s *renderPluginRPCServer) GetMetadata(_ interface{}, resp *PluginInfo) error {
	*resp = s.impl.GetMetadata()
	return nil
}

type renderPluginRPCClient struct {
	client *rpc.Client
}

func (c *renderPluginRPCClient) Render(ctx context.Context, req RenderRequest) (RenderResponse, error) {
	var resp RenderResponse
	err := c.client.Call("Plugin.Render", req, &resp)
	return resp, err
}

func (c *renderPluginRPCClient) GetMetadata() (PluginInfo, error) {
	var info PluginInfo
	err := c.client.Call("Plugin.GetMetadata", new(interface{}), &info)
	return info, err
}
