// Package mcp exposes the tasting operations as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

// Server wraps the MCP server with tasting tools.
type Server struct {
	server *mcp.Server
	svc    *services.TastingService
	log    *logger.Logger
}

// NewServer creates a new MCP server instance over svc.
func NewServer(svc *services.TastingService, version string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "tastings",
		Version: version,
	}, nil)

	s := &Server{
		server: mcpServer,
		svc:    svc,
		log:    log.With("component", "mcp"),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_add",
		Description: "Record a new coffee tasting session",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_list",
		Description: "List every recorded tasting with its position",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_get",
		Description: "Get the tasting at a position",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_update",
		Description: "Replace the tasting at a position",
	}, s.handleUpdate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_delete",
		Description: "Delete the tasting at a position; later positions shift down by one",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tasting_summary",
		Description: "Average overall rating per coffee, optionally per taster",
	}, s.handleSummary)
}

// Input/Output types for each tool

type Fields struct {
	SessionNumber   string   `json:"sessionNumber,omitempty" jsonschema:"Tasting session identifier"`
	Date            string   `json:"date,omitempty" jsonschema:"Date of tasting as YYYY-MM-DD; today if omitted"`
	Taster          string   `json:"taster,omitempty" jsonschema:"Name of the person tasting"`
	CoffeeName      string   `json:"coffeeName" jsonschema:"Name of the coffee"`
	RoastLevel      string   `json:"roastLevel,omitempty" jsonschema:"One of Light, Light-Medium, Medium, Medium-Dark, Dark"`
	BrewMethod      string   `json:"brewMethod,omitempty" jsonschema:"One of V60, AeroPress, Espresso, French Press, Chemex, Cold Brew, Moka Pot, Pour Over, Siphon, Turkish Coffee"`
	ShopName        string   `json:"shopName,omitempty" jsonschema:"Shop the coffee was bought at"`
	ShopAddress     string   `json:"shopAddress,omitempty" jsonschema:"Address of the shop"`
	RoasterLocation string   `json:"roasterLocation,omitempty" jsonschema:"Where the roaster is located"`
	BeanOrigins     []string `json:"beanOrigins,omitempty" jsonschema:"Producing countries of the beans"`
	Acidity         int      `json:"acidity,omitempty" jsonschema:"Acidity from 1 (low) to 10 (high); 5 if omitted"`
	Sweetness       int      `json:"sweetness,omitempty" jsonschema:"Sweetness from 1 (low) to 10 (high); 5 if omitted"`
	Body            int      `json:"body,omitempty" jsonschema:"Body from 1 (light) to 10 (heavy); 5 if omitted"`
	OverallRating   int      `json:"overallRating,omitempty" jsonschema:"Overall rating from 1 to 10; 1 if omitted"`
	FlavorNotes     string   `json:"flavorNotes,omitempty" jsonschema:"Short flavor descriptors"`
	TastingNotes    string   `json:"tastingNotes,omitempty" jsonschema:"Free-form notes"`
}

type AddInput = Fields

type AddOutput struct {
	Message string  `json:"message"`
	Tasting Tasting `json:"tasting"`
}

type ListInput struct{}

type ListOutput struct {
	Revision string    `json:"revision"`
	Tastings []Tasting `json:"tastings"`
}

type GetInput struct {
	Index int `json:"index" jsonschema:"Zero-based position of the tasting"`
}

type GetOutput struct {
	Revision string  `json:"revision"`
	Tasting  Tasting `json:"tasting"`
}

type UpdateInput struct {
	Index    int    `json:"index" jsonschema:"Zero-based position of the tasting to replace"`
	Revision string `json:"revision,omitempty" jsonschema:"Revision returned by tasting_list or tasting_get; rejects the change if the table moved on"`
	Tasting  Fields `json:"tasting" jsonschema:"Replacement values for every field"`
}

type UpdateOutput struct {
	Message string  `json:"message"`
	Tasting Tasting `json:"tasting"`
}

type DeleteInput struct {
	Index    int    `json:"index" jsonschema:"Zero-based position of the tasting to delete"`
	Revision string `json:"revision,omitempty" jsonschema:"Revision returned by tasting_list or tasting_get"`
}

type DeleteOutput struct {
	Message string  `json:"message"`
	Tasting Tasting `json:"tasting"`
}

type SummaryInput struct {
	ByTaster bool `json:"byTaster,omitempty" jsonschema:"Group by taster as well as coffee"`
}

type SummaryOutput struct {
	Averages []Average `json:"averages"`
}

type Average struct {
	Coffee string  `json:"coffee"`
	Taster string  `json:"taster,omitempty"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// Tasting is a record as presented to tool callers.
type Tasting struct {
	Index           int      `json:"index"`
	SessionNumber   string   `json:"sessionNumber"`
	Date            string   `json:"date"`
	Taster          string   `json:"taster"`
	CoffeeName      string   `json:"coffeeName"`
	RoastLevel      string   `json:"roastLevel"`
	BrewMethod      string   `json:"brewMethod"`
	ShopName        string   `json:"shopName"`
	ShopAddress     string   `json:"shopAddress"`
	RoasterLocation string   `json:"roasterLocation"`
	BeanOrigins     []string `json:"beanOrigins"`
	Acidity         int      `json:"acidity"`
	Sweetness       int      `json:"sweetness"`
	Body            int      `json:"body"`
	OverallRating   int      `json:"overallRating"`
	FlavorNotes     string   `json:"flavorNotes"`
	TastingNotes    string   `json:"tastingNotes"`
}

func toInput(f Fields) tasting.Input {
	return tasting.Input{
		SessionNumber:   f.SessionNumber,
		Date:            f.Date,
		Taster:          f.Taster,
		CoffeeName:      f.CoffeeName,
		RoastLevel:      f.RoastLevel,
		BrewMethod:      f.BrewMethod,
		ShopName:        f.ShopName,
		ShopAddress:     f.ShopAddress,
		RoasterLocation: f.RoasterLocation,
		BeanOrigins:     f.BeanOrigins,
		Acidity:         score(f.Acidity, tasting.DefaultAcidity),
		Sweetness:       score(f.Sweetness, tasting.DefaultSweetness),
		Body:            score(f.Body, tasting.DefaultBody),
		OverallRating:   score(f.OverallRating, tasting.DefaultOverallRating),
		FlavorNotes:     f.FlavorNotes,
		TastingNotes:    f.TastingNotes,
	}
}

// score substitutes def for an omitted (zero) score.
func score(v, def int) string {
	if v == 0 {
		v = def
	}
	return strconv.Itoa(v)
}

func toTasting(index int, r tasting.Record) Tasting {
	origins := r.BeanOrigins
	if origins == nil {
		origins = []string{}
	}
	return Tasting{
		Index:           index,
		SessionNumber:   r.SessionNumber,
		Date:            r.Date.String(),
		Taster:          r.Taster,
		CoffeeName:      r.CoffeeName,
		RoastLevel:      string(r.RoastLevel),
		BrewMethod:      string(r.BrewMethod),
		ShopName:        r.ShopName,
		ShopAddress:     r.ShopAddress,
		RoasterLocation: r.RoasterLocation,
		BeanOrigins:     origins,
		Acidity:         r.Acidity,
		Sweetness:       r.Sweetness,
		Body:            r.Body,
		OverallRating:   r.OverallRating,
		FlavorNotes:     r.FlavorNotes,
		TastingNotes:    r.TastingNotes,
	}
}

// Tool handlers

func (s *Server) handleAdd(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, AddOutput, error) {
	index, rec, err := s.svc.Submit(ctx, toInput(input))
	if err != nil {
		return nil, AddOutput{}, fmt.Errorf("failed to add tasting: %w", err)
	}

	return nil, AddOutput{
		Message: fmt.Sprintf("Recorded %s at position %d", rec.CoffeeName, index),
		Tasting: toTasting(index, rec),
	}, nil
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	table, err := s.svc.List(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list tastings: %w", err)
	}

	tastings := make([]Tasting, 0, table.Len())
	for i, r := range table.Records {
		tastings = append(tastings, toTasting(i, r))
	}

	return nil, ListOutput{
		Revision: table.Revision,
		Tastings: tastings,
	}, nil
}

func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, GetOutput, error) {
	rec, table, err := s.svc.Get(ctx, input.Index)
	if err != nil {
		return nil, GetOutput{}, fmt.Errorf("failed to get tasting: %w", err)
	}

	return nil, GetOutput{
		Revision: table.Revision,
		Tasting:  toTasting(input.Index, rec),
	}, nil
}

func (s *Server) handleUpdate(ctx context.Context, req *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, UpdateOutput, error) {
	rec, err := s.svc.Update(ctx, services.UpdateInput{
		Index:    input.Index,
		Input:    toInput(input.Tasting),
		Revision: input.Revision,
	})
	if err != nil {
		return nil, UpdateOutput{}, fmt.Errorf("failed to update tasting: %w", err)
	}

	return nil, UpdateOutput{
		Message: fmt.Sprintf("Updated position %d", input.Index),
		Tasting: toTasting(input.Index, rec),
	}, nil
}

func (s *Server) handleDelete(ctx context.Context, req *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	rec, err := s.svc.Delete(ctx, input.Index, input.Revision)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete tasting: %w", err)
	}

	return nil, DeleteOutput{
		Message: fmt.Sprintf("Deleted %s from position %d", rec.CoffeeName, input.Index),
		Tasting: toTasting(input.Index, rec),
	}, nil
}

func (s *Server) handleSummary(ctx context.Context, req *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	averages, err := s.svc.Summary(ctx, input.ByTaster)
	if err != nil {
		return nil, SummaryOutput{}, fmt.Errorf("failed to summarize tastings: %w", err)
	}

	return nil, SummaryOutput{Averages: toAverages(averages)}, nil
}

func toAverages(in []summary.Average) []Average {
	out := make([]Average, 0, len(in))
	for _, a := range in {
		out = append(out, Average(a))
	}
	return out
}
