// ABOUTME: Pipeline orchestrator wiring ingestion and question answering
// ABOUTME: Runs embed, retrieve, assemble, generate with per-step failure context
package pipeline

import (
	"context"
	"errors"
	"log"

	"github.com/harper/kb-standalone/internal/assembler"
	"github.com/harper/kb-standalone/internal/config"
	"github.com/harper/kb-standalone/internal/index"
	"github.com/harper/kb-standalone/internal/models"
	"github.com/harper/kb-standalone/internal/retriever"
)

// Step names one stage of a request. A request moves Idle through the
// steps to Done; an unrecovered error leaves it Failed at the step
// recorded in the returned StepError.
type Step string

const (
	StepIdle       Step = "idle"
	StepEmbedding  Step = "embedding"
	StepRetrieving Step = "retrieving"
	StepAssembling Step = "assembling"
	StepGenerating Step = "generating"
	StepDone       Step = "done"
	StepFailed     Step = "failed"
)

// StepError reports which step failed and for which subject (document ID
// or question), so the caller can decide whether a retry makes sense.
// The pipeline itself never retries; re-invoking Answer or Ingest is the
// caller's retry.
type StepError struct {
	Step    Step
	Subject string
	Err     error
}

func (e *StepError) Error() string {
	return string(e.Step) + " " + e.Subject + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Generator is the text-generation capability.
type Generator interface {
	Generate(ctx context.Context, instructions, contextBlock, question string) (string, error)
}

// Answer is a generated answer plus the provenance it was grounded on.
type Answer struct {
	Text     string                 `json:"text"`
	Sources  []string               `json:"sources"`
	Passages []models.ScoredPassage `json:"passages"`
}

// Pipeline exposes the two operations of the system: Ingest a document,
// Answer a question. It is safe for concurrent use; the vector index is
// the only shared state and serializes its own mutations.
type Pipeline struct {
	cfg       *config.Config
	retriever *retriever.Retriever
	generator Generator
}

// New assembles a Pipeline. The configuration is captured at
// construction so several pipelines with different settings can coexist.
func New(cfg *config.Config, r *retriever.Retriever, g Generator) *Pipeline {
	return &Pipeline{cfg: cfg, retriever: r, generator: g}
}

// Ingest chunks, embeds, and indexes the document, returning the number
// of chunks stored. It is idempotent; on failure, re-running it repairs
// any partial state.
func (p *Pipeline) Ingest(ctx context.Context, doc models.Document) (int, error) {
	return p.retriever.Ingest(ctx, doc)
}

// Search embeds the query and returns the raw ranked passages without
// generation. Used by the search CLI command and MCP tool.
func (p *Pipeline) Search(ctx context.Context, query string, k int) ([]models.ScoredPassage, error) {
	if k <= 0 {
		k = p.cfg.TopK
	}
	return p.retriever.Retrieve(ctx, query, k)
}

// Remove deletes a document from the index.
func (p *Pipeline) Remove(ctx context.Context, documentID string) error {
	return p.retriever.Remove(ctx, documentID)
}

// Documents lists what is currently indexed.
func (p *Pipeline) Documents(ctx context.Context) ([]index.DocumentInfo, error) {
	return p.retriever.Documents(ctx)
}

// Answer runs the full query flow: embed the question, retrieve top-k
// passages, assemble a budgeted context, generate. Each step blocks on
// the previous one; the first unrecovered error aborts the request with
// a StepError. Cancelling ctx abandons in-flight remote calls and
// surfaces no partial answer.
func (p *Pipeline) Answer(ctx context.Context, question string) (*Answer, error) {
	vector, err := p.retriever.EmbedQuery(ctx, question)
	if err != nil {
		return nil, &StepError{Step: StepEmbedding, Subject: question, Err: err}
	}

	passages, err := p.retriever.Search(ctx, vector, p.cfg.TopK)
	if err != nil {
		return nil, &StepError{Step: StepRetrieving, Subject: question, Err: err}
	}

	assembled, err := assembler.Assemble(passages, p.cfg.ContextBudget)
	if err != nil {
		if !errors.Is(err, assembler.ErrBudgetExceeded) {
			return nil, &StepError{Step: StepAssembling, Subject: question, Err: err}
		}
		// Not fatal: generate with an empty context and let the model
		// say it has nothing to go on.
		log.Printf("Warning: %v; answering %q without context", err, question)
	}

	text, err := p.generator.Generate(ctx, p.cfg.Instructions, assembled.Text, question)
	if err != nil {
		return nil, &StepError{Step: StepGenerating, Subject: question, Err: err}
	}

	return &Answer{
		Text:     text,
		Sources:  assembled.Sources,
		Passages: assembled.Passages,
	}, nil
}
