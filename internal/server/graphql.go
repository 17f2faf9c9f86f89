package server

import (
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// graphqlGet executes ?query= requests and otherwise serves the playground.
// Only query operations run over GET; mutations must be POSTed.
func (s *Server) graphqlGet(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		if s.opts.Playground {
			playground.Handler("bookgraph", "/graphql").ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusBadRequest, errorBody("query parameter is required"))
		return
	}

	var variables map[string]interface{}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("variables must be a JSON object"))
			return
		}
	}

	operationName := c.Query("operationName")
	if !queryOnly(query, operationName) {
		c.Header("Allow", "POST")
		c.JSON(http.StatusMethodNotAllowed, errorBody("only queries are allowed over GET"))
		return
	}

	resp := s.schema.Exec(c.Request.Context(), query, operationName, variables)
	c.JSON(http.StatusOK, resp)
}

// queryOnly reports whether the selected operation is a query. Documents that
// fail to parse are left to the executor so the client sees its errors.
func queryOnly(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return true
	}
	for _, op := range doc.Operations {
		if operationName != "" && op.Name != operationName {
			continue
		}
		if op.Operation != ast.Query {
			return false
		}
	}
	return true
}

// errorBody shapes transport-level failures like GraphQL errors.
func errorBody(msg string) gin.H {
	return gin.H{"errors": []gin.H{{"message": msg}}}
}
