package receipts

import (
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

// RenderPool bounds concurrent receipt rendering. Rendering is CPU work and
// the API serves it inline, so an unbounded burst of receipt requests would
// otherwise compete with query traffic.
type RenderPool struct {
	renderer Renderer
	pool     *ants.Pool
	logger   *slog.Logger
}

func NewRenderPool(renderer Renderer, size int, logger *slog.Logger) (*RenderPool, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &RenderPool{
		renderer: renderer,
		pool:     pool,
		logger:   logger,
	}, nil
}

type renderResult struct {
	content []byte
	err     error
}

// Render submits a render job to the pool and waits for its result
func (p *RenderPool) Render(t *transaction.Transaction) ([]byte, error) {
	resultChan := make(chan renderResult, 1)

	err := p.pool.Submit(func() {
		content, err := p.renderer.Render(t)
		resultChan <- renderResult{content: content, err: err}
	})
	if err != nil {
		p.logger.Error("Failed to submit render job",
			"transaction_id", t.ID.String(),
			"error", err,
		)
		return nil, err
	}

	result := <-resultChan
	return result.content, result.err
}

// Shutdown gracefully shuts down the render pool
func (p *RenderPool) Shutdown() {
	p.logger.Info("Shutting down render pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// Running returns the number of in-flight render jobs
func (p *RenderPool) Running() int {
	return p.pool.Running()
}
