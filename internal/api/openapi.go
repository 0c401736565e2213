package api

import (
	"github.com/reclaimhq/reclaim/internal/categories"
	"github.com/reclaimhq/reclaim/internal/config"
	"github.com/reclaimhq/reclaim/pkg/openapi"
)

// BuildSpec constructs the OpenAPI document for the HTTP surface.
// Paths are relative to the configured API base path.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(domainSchemas())

	addItemPaths(spec)
	addClaimPaths(spec)
	addMatchPaths(spec)
	addStoragePaths(spec)
	addMonitorPaths(spec)

	return spec
}

func domainSchemas() map[string]*openapi.Schema {
	categoryEnum := make([]any, 0, len(categories.All))
	for _, c := range categories.All {
		categoryEnum = append(categoryEnum, string(c))
	}

	return map[string]*openapi.Schema{
		"FoundItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename":    {Type: "string", Example: "IMG_2041.png"},
				"location":    {Type: "string", Example: "Terminal 2, Gate 14"},
				"found_time":  {Type: "string", Format: "date-time"},
				"inserted_at": {Type: "string", Format: "date-time"},
				"seq":         {Type: "integer", Format: "int64"},
			},
			Required: []string{"filename", "location", "found_time"},
		},
		"CreateFoundItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename":   {Type: "string"},
				"location":   {Type: "string"},
				"found_time": {Type: "string", Format: "date-time"},
			},
			Required: []string{"filename", "location", "found_time"},
		},
		"IngestRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"area": {Type: "string", Description: "Storage area whose json/ manifests are ingested", Example: "lost-items"},
			},
			Required: []string{"area"},
		},
		"BatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"manifest": {Type: "string"},
				"inserted": {Type: "integer"},
				"skipped":  {Type: "integer"},
				"error":    {Type: "string"},
			},
		},
		"Claim": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"claim_id":          {Type: "string", Format: "uuid"},
				"commentary":        {Type: "string"},
				"category":          {Type: "string", Enum: categoryEnum},
				"brand":             {Type: "string"},
				"terminal":          {Type: "string"},
				"gate":              {Type: "string"},
				"name":              {Type: "string"},
				"email":             {Type: "string"},
				"phone_number":      {Type: "string"},
				"helpdesk_location": {Type: "string"},
				"status":            {Type: "string", Enum: []any{"Outstanding", "Resolved", "Cancelled"}},
				"claim_lodged_at":   {Type: "string", Format: "date-time"},
			},
		},
		"CreateClaim": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"commentary":        {Type: "string"},
				"category":          {Type: "string", Enum: categoryEnum},
				"brand":             {Type: "string"},
				"terminal":          {Type: "string"},
				"gate":              {Type: "string"},
				"name":              {Type: "string"},
				"email":             {Type: "string"},
				"phone_number":      {Type: "string"},
				"helpdesk_location": {Type: "string"},
				"claim_lodged_at":   {Type: "string", Format: "date-time"},
			},
			Required: []string{"commentary", "category", "terminal", "gate", "name"},
		},
		"StatusRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status": {Type: "string", Enum: []any{"Resolved", "Cancelled"}},
			},
			Required: []string{"status"},
		},
		"Match": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"claim_id":   {Type: "string", Format: "uuid"},
				"filename":   {Type: "string"},
				"found_time": {Type: "string", Format: "date-time"},
				"details":    {Type: "string"},
				"score":      {Type: "number", Description: "Similarity percentage, two decimal places"},
			},
		},
		"PresignResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"url":     {Type: "string"},
				"expires": {Type: "string", Format: "date-time"},
			},
		},
		"Stats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"found_items":       {Type: "integer"},
				"enriched_items":    {Type: "integer"},
				"pending_changes":   {Type: "integer"},
				"checkpoint_offset": {Type: "integer", Format: "int64"},
				"details_unparsed":  {Type: "integer"},
				"failed_items":      {Type: "integer"},
				"quarantined_items": {Type: "integer"},
				"claims_by_status":  {Type: "object"},
			},
		},
	}
}

func addItemPaths(spec *openapi.Spec) {
	spec.Paths["/items"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List found items",
			Tags:    []string{"items"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged found items", "FoundItem"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Register a found item",
			Tags:        []string{"items"},
			RequestBody: openapi.RequestBodyJSON("CreateFoundItem", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created item", "FoundItem"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/items/{filename}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a found item by filename",
			Tags:       []string{"items"},
			Parameters: []*openapi.Parameter{openapi.PathParam("filename", "string", "", "Item image filename")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Found item", "FoundItem"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/items/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search found items",
			Tags:        []string{"items"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", false),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged found items", "FoundItem"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/items/ingest"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Ingest manifest files from a storage area",
			Tags:        []string{"items"},
			RequestBody: openapi.RequestBodyJSON("IngestRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Per-manifest results", "BatchResult"),
				400: openapi.ResponseRef("BadRequest"),
				503: openapi.ResponseRef("Unavailable"),
			},
		},
	}
}

func addClaimPaths(spec *openapi.Spec) {
	spec.Paths["/claims"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List claims",
			Tags:    []string{"claims"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged claims", "Claim"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Lodge a claim",
			Tags:        []string{"claims"},
			RequestBody: openapi.RequestBodyJSON("CreateClaim", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created claim", "Claim"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/claims/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a claim",
			Tags:       []string{"claims"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "string", "uuid", "Claim ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Claim", "Claim"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/claims/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search claims",
			Tags:        []string{"claims"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", false),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged claims", "Claim"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/claims/{id}/status"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Transition a claim out of Outstanding",
			Tags:        []string{"claims"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "string", "uuid", "Claim ID")},
			RequestBody: openapi.RequestBodyJSON("StatusRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated claim", "Claim"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addMatchPaths(spec *openapi.Spec) {
	spec.Paths["/matches"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Match every outstanding claim against enriched items",
			Description: "Returns all scored matches without per-claim truncation.",
			Tags:        []string{"matches"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scored matches", "Match"),
				503: openapi.ResponseRef("Unavailable"),
			},
		},
	}

	spec.Paths["/matches/{claim_id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Match a single claim against enriched items",
			Description: "Returns the strongest matches for the claim, best first. Unknown or non-outstanding claims yield an empty list.",
			Tags:        []string{"matches"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("claim_id", "string", "uuid", "Claim ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scored matches", "Match"),
				400: openapi.ResponseRef("BadRequest"),
				503: openapi.ResponseRef("Unavailable"),
			},
		},
	}
}

func addStoragePaths(spec *openapi.Spec) {
	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List blobs",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker from a prior page", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob listing"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Blob metadata",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "string", "", "Blob key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob metadata"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a blob",
			Tags:       []string{"storage"},
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "string", "", "Blob key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob content"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/storage/presign/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Mint a read-only access URL for a blob",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("key", "string", "", "Blob key"),
				openapi.QueryParam("ttl", "integer", "Lifetime in seconds, capped at 24 hours", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Access URL", "PresignResponse"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addMonitorPaths(spec *openapi.Spec) {
	spec.Paths["/monitor/stats"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Pipeline statistics",
			Tags:    []string{"monitor"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Pipeline statistics", "Stats"),
			},
		},
	}

	spec.Paths["/monitor/usage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Model usage totals",
			Tags:    []string{"monitor"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Per-model token and cost totals"},
			},
		},
	}
}
