package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"

	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
)

// Engine selects how DOT is turned into an image.
type Engine string

const (
	// EngineAuto picks the embedded engine when it supports the output
	// format and falls back to the external dot binary otherwise.
	EngineAuto Engine = "auto"
	// EngineEmbedded uses the bundled Graphviz, no system install needed.
	EngineEmbedded Engine = "embedded"
	// EngineExternal shells out to the dot binary on PATH.
	EngineExternal Engine = "external"
)

// ParseEngine validates an engine name from the command line.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(s)) {
	case "", EngineAuto:
		return EngineAuto, nil
	case EngineEmbedded:
		return EngineEmbedded, nil
	case EngineExternal:
		return EngineExternal, nil
	}
	return "", perrors.New(perrors.ErrCodeRenderUnavailable,
		"unknown renderer %q (want auto, embedded or external)", s)
}

var embeddedFormats = map[string]graphviz.Format{
	"svg":  graphviz.SVG,
	"png":  graphviz.PNG,
	"jpg":  graphviz.JPG,
	"jpeg": graphviz.JPG,
}

// Raster renders DOT source to an image file. The format is the
// Graphviz -T name ("pdf", "svg", "png", ...). Failures carry the
// RENDER_UNAVAILABLE code so callers can degrade to DOT-only output.
func Raster(ctx context.Context, dot []byte, path, format string, engine Engine) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if engine == "" || engine == EngineAuto {
		if _, ok := embeddedFormats[format]; ok {
			engine = EngineEmbedded
		} else {
			engine = EngineExternal
		}
	}

	switch engine {
	case EngineEmbedded:
		return rasterEmbedded(ctx, dot, path, format)
	case EngineExternal:
		return rasterExternal(ctx, dot, path, format)
	}
	return perrors.New(perrors.ErrCodeRenderUnavailable, "unknown renderer %q", engine)
}

func rasterEmbedded(ctx context.Context, dot []byte, path, format string) error {
	gvFormat, ok := embeddedFormats[format]
	if !ok {
		return perrors.New(perrors.ErrCodeRenderUnavailable,
			"embedded renderer cannot produce %s (use the external renderer)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderUnavailable, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderUnavailable, err, "render %s", format)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "cannot write %s", path)
	}
	return nil
}

// rasterExternal writes the DOT source to a uniquely named temp file
// and runs the system dot binary on it.
func rasterExternal(ctx context.Context, dot []byte, path, format string) error {
	if _, err := exec.LookPath("dot"); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderUnavailable, err,
			"%s output needs Graphviz on PATH (apt install graphviz / brew install graphviz)", format)
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("pythiaplotter-%s.gv", uuid.NewString()))
	if err := os.WriteFile(tmp, dot, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "cannot write %s", tmp)
	}
	defer os.Remove(tmp)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "dot", "-T"+format, "-o", path, tmp)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return perrors.Wrap(perrors.ErrCodeRenderUnavailable, err,
			"dot -T%s failed: %s", format, strings.TrimSpace(stderr.String()))
	}
	return nil
}
