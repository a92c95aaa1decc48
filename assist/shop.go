package assist

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"cardstock"
	"cardstock/renderer"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: Declarations(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			The user runs a sealed trading-card shop. His catalog of sealed products with
			quantities, market prices and selling prices is managed by the Clerk; recent
			market news come from the Scout.

			Learn about the experts' skills from the Tools and ask them questions. They are
			at your service and keep context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request. Check the catalog first so you know what the user holds.
		`}}},
		},
		Toolbox: NewToolbox(experts),
	}
}

// NewScout returns the market-news expert, grounded in Google Search.
func NewScout() *Expert {
	return &Expert{
		Name: "Scout",
		Description: `This is the market Scout.
		He knows the trading-card market, the publishers, the sets and the reprint waves.
		Ask the Scout whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in the sealed trading-card market. You can search and find
			anything related to publishers, set releases, reprints and price movements.
			You leverage Google Search to ground your assertions, you can get the latest
			news and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewClerk returns the catalog expert, answering through function tools over
// the shop's stores.
func NewClerk(store, watch *cardstock.Store) *Expert {
	tools := []Tool{catalogTool(store), watchlistTool(watch)}

	return &Expert{
		Name: "Clerk",
		Description: `This is the Clerk. He keeps the shop's catalog and the watchlist.
		He can list what is in stock, at which market and selling prices, and how the
		watched items moved against their baselines.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: Declarations(tools)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the clerk of a sealed trading-card shop. You know how to use the
				Tools to extract the catalog and the watchlist. You are part of a team of
				experts; pardon their approximative language and figure out what they meant.
			`}}},
		},
		Toolbox: NewToolbox(tools),
	}
}

func catalogTool(store *cardstock.Store) Tool {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Catalog",
			Description: `Catalog lists every product in the shop's catalog: name, set,
			quantity in stock, market price, selling price, pricing percent and the time
			of the last price observation.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the full catalog.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			doc, err := store.Read()
			if err != nil {
				return toolError(id, "Catalog", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Catalog",
				Response: map[string]any{
					"output": renderer.RenderCatalog(renderer.NewCatalog(doc.Items, time.Now())),
				},
			}
		},
	}
}

func watchlistTool(watch *cardstock.Store) Tool {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Watchlist",
			Description: `Watchlist lists the items the user watches without necessarily
			stocking them, with their market price and their movement since the first
			observed price.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted digest of the watchlist.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			doc, err := watch.Read()
			if err != nil {
				return toolError(id, "Watchlist", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Watchlist",
				Response: map[string]any{
					"output": renderer.RenderDigest(renderer.NewDigest(doc.Items, time.Now())),
				},
			}
		},
	}
}

func toolError(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": fmt.Sprintf("could not read the %s store: %v", name, err),
		},
	}
}
