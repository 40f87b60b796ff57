package renderpane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// DetectPlugin queries pluginPath with --plugin-info and validates the
// advertised protocol version against IsCompatible.
func DetectPlugin(pluginPath string) (PluginInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, pluginPath, "--plugin-info")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return PluginInfo{}, fmt.Errorf("querying renderpane plugin: %w\nstderr: %s", err, stderr.String())
	}

	var info PluginInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return PluginInfo{}, fmt.Errorf("parsing plugin info: %w", err)
	}
	if ok, err := IsCompatible(info.ProtocolVersion); !ok {
		return PluginInfo{}, err
	}
	return info, nil
}
