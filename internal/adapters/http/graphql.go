package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
)

// jsonScalar passes values through untouched; steps have too many optional
// fields to be worth a typed schema.
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON value",
	Serialize:   func(v interface{}) interface{} { return v },
	ParseValue:  func(v interface{}) interface{} { return v },
	ParseLiteral: func(v ast.Value) interface{} {
		return v.GetValue()
	},
})

// buildSchema creates the GraphQL schema wired to the hull service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"x": &graphql.Field{Type: graphql.Float},
			"y": &graphql.Field{Type: graphql.Float},
		},
	})

	pointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"x": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"y": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"hull_size":            &graphql.Field{Type: graphql.Int},
			"step_count":           &graphql.Field{Type: graphql.Int},
			"execution_time_ms":    &graphql.Field{Type: graphql.Float},
			"iterations_attempted": &graphql.Field{Type: graphql.Int},
			"successful_m_value":   &graphql.Field{Type: graphql.Int},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HullResult",
		Fields: graphql.Fields{
			"algorithm": &graphql.Field{Type: graphql.String},
			"hull":      &graphql.Field{Type: graphql.NewList(pointType)},
			"stats":     &graphql.Field{Type: statsType},
			"steps":     &graphql.Field{Type: graphql.NewList(jsonScalar)},
		},
	})

	entryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ComparisonEntry",
		Fields: graphql.Fields{
			"algorithm": &graphql.Field{Type: graphql.String},
			"hull":      &graphql.Field{Type: graphql.NewList(pointType)},
			"stats":     &graphql.Field{Type: statsType},
		},
	})

	comparisonType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Comparison",
		Fields: graphql.Fields{
			"input_size": &graphql.Field{Type: graphql.Int},
			"agree":      &graphql.Field{Type: graphql.Boolean},
			"results":    &graphql.Field{Type: graphql.NewList(entryType)},
		},
	})

	algorithmType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Algorithm",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"title":      &graphql.Field{Type: graphql.String},
			"complexity": &graphql.Field{Type: graphql.String},
			"step_types": &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	pointsArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(pointInput)))}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"algorithms": &graphql.Field{
				Type:        graphql.NewList(algorithmType),
				Description: "Supported hull algorithms",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out := make([]map[string]interface{}, 0, len(domain.Algorithms))
					for _, info := range deps.Hull.Algorithms() {
						types := make([]string, len(info.StepTypes))
						for i, t := range info.StepTypes {
							types[i] = string(t)
						}
						out = append(out, map[string]interface{}{
							"name":       string(info.Name),
							"title":      info.Title,
							"complexity": info.Complexity,
							"step_types": types,
						})
					}
					return out, nil
				},
			},
			"hull": &graphql.Field{
				Type:        resultType,
				Description: "Compute a convex hull with one algorithm",
				Args: graphql.FieldConfigArgument{
					"algorithm":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"points":       pointsArg,
					"record_steps": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					alg := p.Args["algorithm"].(string)
					pts, err := pointsFromArgs(p.Args["points"])
					if err != nil {
						return nil, err
					}
					record, _ := p.Args["record_steps"].(bool)
					res, err := deps.Hull.Run(p.Context, domain.Algorithm(alg), pts, usecases.RunOptions{
						DiscardSteps: !record,
						RequestID:    RequestIDFromCtx(p.Context),
					})
					if err != nil {
						return nil, err
					}
					steps := make([]interface{}, len(res.Steps))
					for i := range res.Steps {
						steps[i] = res.Steps[i]
					}
					return map[string]interface{}{
						"algorithm": string(res.Algorithm),
						"hull":      res.Hull,
						"stats":     statsMap(res.Stats),
						"steps":     steps,
					}, nil
				},
			},
			"compare": &graphql.Field{
				Type:        comparisonType,
				Description: "Run several algorithms over the same points",
				Args: graphql.FieldConfigArgument{
					"points":     pointsArg,
					"algorithms": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pts, err := pointsFromArgs(p.Args["points"])
					if err != nil {
						return nil, err
					}
					var algs []domain.Algorithm
					if raw, ok := p.Args["algorithms"].([]interface{}); ok {
						for _, a := range raw {
							if s, ok := a.(string); ok {
								algs = append(algs, domain.Algorithm(s))
							}
						}
					}
					cmp, err := deps.Hull.Compare(p.Context, algs, pts)
					if err != nil {
						return nil, err
					}
					results := make([]map[string]interface{}, 0, len(cmp.Results))
					for _, alg := range domain.Algorithms {
						e, ok := cmp.Results[alg]
						if !ok {
							continue
						}
						results = append(results, map[string]interface{}{
							"algorithm": string(alg),
							"hull":      e.Hull,
							"stats":     statsMap(e.Stats),
						})
					}
					return map[string]interface{}{
						"input_size": cmp.InputSize,
						"agree":      cmp.Agree,
						"results":    results,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// pointsFromArgs converts a [PointInput!]! argument into domain input.
func pointsFromArgs(arg interface{}) ([]domain.PointInput, error) {
	raw, ok := arg.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: points must be a list", domain.ErrInvalidInput)
	}
	out := make([]domain.PointInput, 0, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: point %d is not an object", domain.ErrInvalidInput, i)
		}
		x, xok := toFloat(m["x"])
		y, yok := toFloat(m["y"])
		if !xok || !yok {
			return nil, fmt.Errorf("%w: point %d is missing a coordinate", domain.ErrInvalidInput, i)
		}
		out = append(out, domain.PointInput{X: &x, Y: &y})
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func statsMap(s domain.Stats) map[string]interface{} {
	m := map[string]interface{}{
		"hull_size":         s.HullSize,
		"step_count":        s.StepCount,
		"execution_time_ms": s.ExecutionTimeMS,
	}
	if s.IterationsAttempted != nil {
		m["iterations_attempted"] = *s.IterationsAttempted
	}
	if s.SuccessfulM != nil {
		m["successful_m_value"] = *s.SuccessfulM
	}
	return m
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
