package commands

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/insurancevn/insurancenews/internal/config"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/server/httpserver"
)

// RenderCmd implements the 'render' command. It routes one path through the
// same handler the server uses and writes the document to stdout.
type RenderCmd struct {
	Path string `arg:"" optional:"" help:"Site path to render, for example /articles/some-slug" default:"/"`
}

func (c *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	st, err := newSite(cfg, g.Logger)
	if err != nil {
		return err
	}
	h := httpserver.New(cfg, httpserver.Deps{
		Composer: st.composer,
		Renderer: st.renderer,
		Source:   st.fetcher,
		Fixtures: st.fixtures,
		Cache:    st.fetcher,
		Recorder: st.recorder,
	}).Handler()

	req := httptest.NewRequest(http.MethodGet, c.Path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	_, _ = fmt.Fprintf(os.Stderr, "%d %s\n", rr.Code, http.StatusText(rr.Code))
	if _, err := os.Stdout.Write(rr.Body.Bytes()); err != nil {
		return err
	}
	if rr.Code >= http.StatusInternalServerError {
		return ferrors.RenderError(fmt.Sprintf("rendering %s returned %d", c.Path, rr.Code)).Build()
	}
	return nil
}
