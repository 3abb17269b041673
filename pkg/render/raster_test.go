package render

import (
	"context"
	"testing"

	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineAuto, false},
		{"auto", EngineAuto, false},
		{"embedded", EngineEmbedded, false},
		{"EXTERNAL", EngineExternal, false},
		{"imagemagick", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRasterEmbeddedRejectsUnsupportedFormat(t *testing.T) {
	err := Raster(context.Background(), []byte("digraph {}"), "out.pdf", "pdf", EngineEmbedded)
	if !perrors.Is(err, perrors.ErrCodeRenderUnavailable) {
		t.Errorf("Raster(embedded, pdf) = %v, want RENDER_UNAVAILABLE", err)
	}
}
