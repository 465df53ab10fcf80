package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
)

// HullRequest is the body of POST /v1/hull/:algorithm.
type HullRequest struct {
	Points []domain.PointInput `json:"points"`
	// RecordSteps defaults to true. When false, step_count is still
	// reported but no steps are returned.
	RecordSteps *bool `json:"record_steps,omitempty"`
}

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	Points     []domain.PointInput `json:"points"`
	Algorithms []domain.Algorithm  `json:"algorithms,omitempty"`
}

// HullResponse is a single algorithm run.
type HullResponse struct {
	Success bool `json:"success"`
	*domain.Result
	Pagination *Pagination `json:"pagination,omitempty"`
}

// CompareResponse is a cross-algorithm comparison.
type CompareResponse struct {
	Success bool `json:"success"`
	*domain.Comparison
}

// decodeBody parses a JSON request body into v.
func decodeBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// HullHandler runs the algorithm named by the :algorithm route parameter.
func HullHandler(deps *Dependencies) fiber.Handler {
	return hullHandler(deps, "")
}

// LegacyHullHandler serves the unversioned POST /<algorithm> routes.
func LegacyHullHandler(deps *Dependencies, alg domain.Algorithm) fiber.Handler {
	return hullHandler(deps, alg)
}

func hullHandler(deps *Dependencies, fixed domain.Algorithm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alg := fixed
		if alg == "" {
			parsed, err := domain.ParseAlgorithm(c.Params("algorithm"))
			if err != nil {
				return errFromService(c, err)
			}
			alg = parsed
		}

		var req HullRequest
		if err := decodeBody(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		// An empty list is valid and yields an empty hull; a missing one is not.
		if req.Points == nil {
			return errBadRequest(c, "points is required")
		}

		rid, _ := c.Locals("requestid").(string)
		res, err := deps.Hull.Run(c.UserContext(), alg, req.Points, usecases.RunOptions{
			DiscardSteps: req.RecordSteps != nil && !*req.RecordSteps,
			RequestID:    rid,
		})
		if err != nil {
			return errFromService(c, err)
		}

		resp := HullResponse{Success: true, Result: res}
		if offset, limit, ok := pageParams(c); ok {
			pg := Pagination{Offset: offset, Limit: limit, Total: len(res.Steps)}
			paged := *res
			paged.Steps = page(res.Steps, offset, limit)
			resp.Result = &paged
			resp.Pagination = &pg
			SetLinkHeaders(c, pg)
		}
		return respond(c, fiber.StatusOK, resp)
	}
}

// CompareHandler runs several algorithms over the same points.
func CompareHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CompareRequest
		if err := decodeBody(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		if req.Points == nil {
			return errBadRequest(c, "points is required")
		}

		cmp, err := deps.Hull.Compare(c.UserContext(), req.Algorithms, req.Points)
		if err != nil {
			return errFromService(c, err)
		}
		return respond(c, fiber.StatusOK, CompareResponse{Success: true, Comparison: cmp})
	}
}

// AlgorithmsHandler lists the supported algorithms and their step types.
func AlgorithmsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, fiber.Map{
			"algorithms": deps.Hull.Algorithms(),
			"max_points": deps.Hull.MaxPoints(),
		})
	}
}

// APIInfoHandler describes the API in the shape of the unversioned release.
func APIInfoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		endpoints := make(fiber.Map, len(domain.Algorithms)+1)
		for _, alg := range domain.Algorithms {
			endpoints["/v1/hull/"+string(alg)] = "POST - " + alg.Title()
		}
		endpoints["/v1/compare"] = "POST - Compare multiple algorithms"

		return c.JSON(fiber.Map{
			"name":       "HullTrace Convex Hull API",
			"version":    deps.version(),
			"algorithms": domain.Algorithms,
			"endpoints":  endpoints,
		})
	}
}
