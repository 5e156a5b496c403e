package export

import (
	"context"
	"os"
	"testing"

	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require Chrome/Chromium on the system.
// Set TEST_BROWSER=1 to run them.

func TestPDF_RendersSampleResume(t *testing.T) {
	if os.Getenv("TEST_BROWSER") == "" {
		t.Skip("TEST_BROWSER not set, skipping browser test")
	}

	r, err := render.New()
	require.NoError(t, err)
	html, err := r.Render(project.TemplateClassic, resume.Sample(), style.Defaults(), render.Options{})
	require.NoError(t, err)

	pdf, err := New().PDF(context.Background(), html)
	require.NoError(t, err)
	assert.Greater(t, len(pdf), 1000)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
