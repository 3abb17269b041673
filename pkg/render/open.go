package render

import (
	"os/exec"
	"runtime"

	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
)

// OpenInViewer hands the rendered file to the desktop's default viewer.
// Launch failures are non-fatal to the pipeline, so they carry the
// RENDER_UNAVAILABLE code.
func OpenInViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderUnavailable, err, "cannot open %s", path)
	}
	return nil
}
