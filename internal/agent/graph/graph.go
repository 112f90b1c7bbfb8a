// Package graph composes the per-turn conversation state machine as an Eino
// graph:
//
//	classify ─┬─ greeting ──────────────────────────┐
//	          ├─ inquiry ──── retrieve ─────────────┤
//	          └─ lead ─────── extract ─┬─ capture ──┤
//	                                   └────────────┴── respond → finalize
//
// Exactly one path runs per turn; there are no loops. The graph is a pure
// function from (message, prior state) to (reply, new state) — persistence
// belongs to the caller.
package graph

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/nodes"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/observers"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/intent"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/slots"
	"github.com/JayanthSrinivas06/autostream-agent/internal/rag"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
	"google.golang.org/genai"
)

// Runner executes the compiled turn graph. Failures of any external call
// (LLM, index, sink) propagate out of Invoke; the caller must not persist
// state for a failed turn.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.TurnOutput, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
// Convenience layer over GraphConfig that also constructs the chat models,
// classifier and extractor.
type Config struct {
	Client          *genai.Client
	ClassifierModel model.ClassifierModelConfig
	ResponseModel   model.ResponseModelConfig
	Prompt          model.PromptConfig
	Conversation    model.ConversationConfig
	Retriever       rag.ContextProvider
	Sink            leads.CaptureSink
}

// GraphConfig holds the fully-constructed collaborators the graph wires
// together. Tests build this directly with fakes.
type GraphConfig struct {
	Classifier        *intent.Classifier
	Extractor         *slots.Extractor
	Retriever         rag.ContextProvider
	Sink              leads.CaptureSink
	ResponseModel     einomodel.BaseChatModel
	ResponseModelName string
	Prompt            model.PromptConfig
	RecentTurns       int
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *model.TurnOutput]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *model.TurnOutput]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.TurnOutput, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildTurnGraph composes the chat models, classifier and extractor, builds
// the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("retriever is nil")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("capture sink is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		Client:           cfg.Client,
		ClassifierConfig: &cfg.ClassifierModel,
		RespConfig:       &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Classifier:        intent.NewClassifier(cms.Classifier, cfg.Prompt),
		Extractor:         slots.NewExtractor(cms.Classifier),
		Retriever:         cfg.Retriever,
		Sink:              cfg.Sink,
		ResponseModel:     cms.Response,
		ResponseModelName: cms.ResponseModelName,
		Prompt:            cfg.Prompt,
		RecentTurns:       cfg.Conversation.RecentTurns,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and compiles the turn graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *model.TurnOutput], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Classifier == nil || config.Extractor == nil {
		return nil, fmt.Errorf("classifier/extractor are not properly initialized")
	}
	if config.ResponseModel == nil {
		return nil, fmt.Errorf("response model is nil")
	}
	if config.Retriever == nil || config.Sink == nil {
		return nil, fmt.Errorf("retriever/sink are not properly initialized")
	}
	if config.RecentTurns <= 0 {
		config.RecentTurns = 2
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.TurnOutput](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph.
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassify,
		nodes.NewClassifyNode(b.config.Classifier),
		compose.WithStatePreHandler(nodes.NewClassifyPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifyPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeRetrieve,
		nodes.NewRetrieveNode(b.config.Retriever),
	)

	b.graph.AddLambdaNode(nodes.NodeExtract,
		nodes.NewExtractNode(b.config.Extractor),
	)

	b.graph.AddLambdaNode(nodes.NodeCapture,
		nodes.NewCaptureNode(b.config.Sink),
	)

	b.graph.AddLambdaNode(nodes.NodeResponseAssembler,
		nodes.NewResponseAssemblerNode(b.config.Prompt, b.config.RecentTurns),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		b.config.ResponseModel,
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.ResponseModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalizer,
		nodes.NewFinalizerNode(),
	)
}

// addEdges creates the unconditional flow connections.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassify},
		{nodes.NodeRetrieve, nodes.NodeResponseAssembler},
		{nodes.NodeCapture, nodes.NodeResponseAssembler},
		{nodes.NodeResponseAssembler, nodes.NodeResponseChatModel},
		{nodes.NodeResponseChatModel, nodes.NodeFinalizer},
		{nodes.NodeFinalizer, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the two conditional routes: by intent after
// classification, and by slot completeness after extraction.
func (b *GraphBuilder) addBranches() error {
	intentBranch := compose.NewGraphBranch(
		nodes.NewIntentBranchCondition(),
		map[string]bool{
			nodes.NodeResponseAssembler: true,
			nodes.NodeRetrieve:          true,
			nodes.NodeExtract:           true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassify, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}

	captureBranch := compose.NewGraphBranch(
		nodes.NewCaptureCondition(),
		map[string]bool{
			nodes.NodeCapture:           true,
			nodes.NodeResponseAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeExtract, captureBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding capture branch")
		return fmt.Errorf("error adding capture branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph. The longest path is six nodes;
// the step cap only guards against wiring mistakes.
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.TurnOutput], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
